package health

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/newtron-network/bondaudit/pkg/bonding"
)

func TestNewReport(t *testing.T) {
	groups := []bonding.Group{
		{
			Name: "bond0",
			Mode: bonding.ModeActiveBackup,
			Members: []bonding.Member{
				{Name: "ens3f0", Status: bonding.LinkUp, VlanID: "200"},
				{Name: "eno49", Status: bonding.LinkUp},
			},
		},
	}

	r := NewReport(groups)
	if len(r) != 1 || len(r["bond0"]) != 2 {
		t.Fatalf("NewReport() = %+v", r)
	}
	if r["bond0"]["ens3f0"] != (Entry{Status: "up", VlanID: "200"}) {
		t.Errorf("ens3f0 = %+v", r["bond0"]["ens3f0"])
	}
	if r["bond0"]["eno49"] != (Entry{Status: "up", VlanID: ""}) {
		t.Errorf("eno49 = %+v", r["bond0"]["eno49"])
	}
}

func TestReportJSON_Schema(t *testing.T) {
	r := Report{"bond0": {"eno49": {Status: "up", VlanID: ""}}}

	data, err := r.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	want := "{\n    \"bond0\": {\n        \"eno49\": {\n            \"status\": \"up\",\n            \"vlanid\": \"\"\n        }\n    }\n}"
	if string(data) != want {
		t.Errorf("JSON() =\n%s\nwant\n%s", data, want)
	}

	var decoded map[string]map[string]map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if _, ok := decoded["bond0"]["eno49"]["vlanid"]; !ok {
		t.Error("vlanid key must be present even when empty")
	}
}

func TestReportOrdering(t *testing.T) {
	r := Report{
		"bond1": {"eno50": {}, "ens3f1": {}},
		"bond0": {"ens3f0": {}, "eno49": {}},
	}

	if got, want := r.Bonds(), []string{"bond0", "bond1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Bonds() = %v, want %v", got, want)
	}
	if got, want := r.Members("bond0"), []string{"eno49", "ens3f0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Members(bond0) = %v, want %v", got, want)
	}
	if got := r.Members("bond9"); len(got) != 0 {
		t.Errorf("Members(bond9) = %v, want empty", got)
	}
}
