package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const columnGap = 2

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Table renders column-aligned output. Rows are buffered until Flush so
// column widths fit the widest cell; when the writer is a terminal, wide
// columns are narrowed and their cells word-wrapped to the terminal width.
// Empty tables produce no output.
type Table struct {
	out     io.Writer
	headers []string
	rows    [][]string
	width   int // 0 disables wrapping
}

// NewTable creates a table on w with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	t := &Table{out: w, headers: headers}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			t.width = cols
		}
	}
	return t
}

// Row buffers a row. Missing trailing cells render empty.
func (t *Table) Row(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Flush writes the table. If no rows were added, nothing is printed.
func (t *Table) Flush() {
	if len(t.rows) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visualLen(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := visualLen(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	if t.width > 0 {
		widths = capWidths(widths, t.headers, t.width)
	}

	dividers := make([]string, len(t.headers))
	for i, h := range t.headers {
		dividers[i] = strings.Repeat("-", visualLen(h))
	}

	t.writeRow(t.headers, widths)
	t.writeRow(dividers, widths)
	for _, row := range t.rows {
		t.writeRow(row, widths)
	}
	t.rows = nil
}

func (t *Table) writeRow(cells []string, widths []int) {
	wrapped := make([][]string, len(cells))
	height := 1
	for i, cell := range cells {
		wrapped[i] = wrapCell(cell, widths[i])
		if len(wrapped[i]) > height {
			height = len(wrapped[i])
		}
	}

	for line := 0; line < height; line++ {
		var b strings.Builder
		for i := range cells {
			var s string
			if line < len(wrapped[i]) {
				s = wrapped[i][line]
			}
			b.WriteString(s)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-visualLen(s)+columnGap))
			}
		}
		fmt.Fprintln(t.out, strings.TrimRight(b.String(), " "))
	}
}

// visualLen is the printed width of s, ignoring ANSI colour codes.
func visualLen(s string) int {
	return utf8.RuneCountInString(ansiRE.ReplaceAllString(s, ""))
}

// capWidths narrows the widest column one cell at a time until the row fits
// termWidth. No column shrinks below its header.
func capWidths(widths []int, headers []string, termWidth int) []int {
	out := make([]int, len(widths))
	copy(out, widths)

	total := columnGap * (len(out) - 1)
	for _, w := range out {
		total += w
	}

	for total > termWidth {
		widest := -1
		for i, w := range out {
			if w > visualLen(headers[i]) && (widest < 0 || w > out[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		out[widest]--
		total--
	}
	return out
}

// wrapCell word-wraps s to width, hard-breaking words longer than width.
// Cells that fit are returned unchanged; wrapped cells lose their colour.
func wrapCell(s string, width int) []string {
	if width <= 0 || visualLen(s) <= width {
		return []string{s}
	}

	var lines []string
	cur := ""
	for _, word := range strings.Fields(ansiRE.ReplaceAllString(s, "")) {
		runes := []rune(word)
		for len(runes) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		word = string(runes)
		switch {
		case word == "":
		case cur == "":
			cur = word
		case utf8.RuneCountInString(cur)+1+len(runes) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
