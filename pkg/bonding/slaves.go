package bonding

import (
	"fmt"
	"strings"

	"github.com/newtron-network/bondaudit/pkg/util"
)

const slavePrefix = "Slave Interface:"

// scanState is the member scanner's position in a name/status line pair.
type scanState int

const (
	awaitingName scanState = iota
	awaitingStatus
)

// ParseMembers extracts member interfaces from a bond's status text. Every
// "Slave Interface: <name>" line must be immediately followed by a
// "<key>: <status>" line ("MII Status: up"); anything else is a parse error.
func ParseMembers(bond string, lines []string) ([]Member, error) {
	var members []Member
	seen := make(map[string]bool)
	state := awaitingName
	name, nameAt := "", 0

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		switch state {
		case awaitingName:
			if !strings.HasPrefix(line, slavePrefix) {
				continue
			}
			name = strings.TrimSpace(strings.TrimPrefix(line, slavePrefix))
			if name == "" {
				return nil, util.NewParseError(bond, lineNo, "empty slave interface name")
			}
			if seen[name] {
				return nil, util.NewParseError(bond, lineNo, fmt.Sprintf("duplicate slave interface %s", name))
			}
			nameAt = lineNo
			state = awaitingStatus

		case awaitingStatus:
			if strings.HasPrefix(line, slavePrefix) {
				return nil, util.NewParseError(bond, lineNo,
					fmt.Sprintf("slave interface %s has no status line", name))
			}
			_, value, ok := strings.Cut(line, ":")
			if !ok || strings.TrimSpace(value) == "" {
				return nil, util.NewParseError(bond, lineNo,
					fmt.Sprintf("expected status line after slave interface %s, got %q", name, line))
			}
			seen[name] = true
			members = append(members, Member{Name: name, Status: ParseLinkStatus(value)})
			state = awaitingName
		}
	}

	if state == awaitingStatus {
		return nil, util.NewParseError(bond, nameAt,
			fmt.Sprintf("status text ends after slave interface %s", name))
	}
	return members, nil
}
