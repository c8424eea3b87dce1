package bonding

import "context"

// TextInspector derives bond state by parsing status text from a StatusReader.
// Each call reads the status of the bond it is asked about.
type TextInspector struct {
	reader StatusReader
}

// NewTextInspector creates an inspector over reader.
func NewTextInspector(reader StatusReader) *TextInspector {
	return &TextInspector{reader: reader}
}

// ListBonds returns the configured bonds.
func (i *TextInspector) ListBonds(ctx context.Context) ([]string, error) {
	return i.reader.ListBonds(ctx)
}

// Mode parses the "Bonding Mode" line of bond's status.
func (i *TextInspector) Mode(ctx context.Context, bond string) (Mode, error) {
	lines, err := i.reader.ReadStatus(ctx, bond)
	if err != nil {
		return ModeUnknown, err
	}
	return ParseMode(lines), nil
}

// Members parses the slave interface sections of bond's status.
func (i *TextInspector) Members(ctx context.Context, bond string) ([]Member, error) {
	lines, err := i.reader.ReadStatus(ctx, bond)
	if err != nil {
		return nil, err
	}
	return ParseMembers(bond, lines)
}
