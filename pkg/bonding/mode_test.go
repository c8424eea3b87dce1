package bonding

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Mode
	}{
		{
			name:  "active-backup",
			lines: []string{"Ethernet Channel Bonding Driver: v3.7.1", "", "Bonding Mode: fault-tolerance (active-backup)"},
			want:  ModeActiveBackup,
		},
		{
			name:  "surrounding whitespace",
			lines: []string{"  Bonding Mode:   IEEE 802.3ad Dynamic link aggregation  "},
			want:  Mode8023AD,
		},
		{
			name:  "first mode line wins",
			lines: []string{"Bonding Mode: load balancing (xor)", "Bonding Mode: fault-tolerance (active-backup)"},
			want:  ModeBalanceXOR,
		},
		{
			name:  "missing mode line",
			lines: []string{"MII Status: up"},
			want:  ModeUnknown,
		},
		{
			name:  "mode line without separator",
			lines: []string{"Bonding Mode fault-tolerance"},
			want:  ModeUnknown,
		},
		{
			name:  "empty text",
			lines: nil,
			want:  ModeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMode(tt.lines); got != tt.want {
				t.Errorf("ParseMode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModeIsActiveBackup(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{ModeActiveBackup, true},
		{ModeBalanceRR, false},
		{ModeUnknown, false},
		{Mode("active-backup"), false},
		{Mode("Fault-Tolerance (Active-Backup)"), false},
	}

	for _, tt := range tests {
		if got := tt.mode.IsActiveBackup(); got != tt.want {
			t.Errorf("Mode(%q).IsActiveBackup() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestParseLinkStatus(t *testing.T) {
	tests := []struct {
		token string
		want  LinkStatus
	}{
		{"up", LinkUp},
		{"UP", LinkUp},
		{" up  ", LinkUp},
		{"down", LinkDown},
		{"going back", LinkDown},
		{"", LinkDown},
	}

	for _, tt := range tests {
		if got := ParseLinkStatus(tt.token); got != tt.want {
			t.Errorf("ParseLinkStatus(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}
