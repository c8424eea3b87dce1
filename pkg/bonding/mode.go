package bonding

import "strings"

const modePrefix = "Bonding Mode"

// ParseMode returns the classification from the first "Bonding Mode:" line of
// a bond's status text, or ModeUnknown if there is no such line.
func ParseMode(lines []string) Mode {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, modePrefix) {
			continue
		}
		_, value, ok := strings.Cut(line, ":")
		if !ok {
			return ModeUnknown
		}
		return Mode(strings.TrimSpace(value))
	}
	return ModeUnknown
}
