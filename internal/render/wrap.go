package render

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Segment is one physical row produced by wrapping a logical line.
type Segment struct {
	Text   string
	Indent int
}

// Wrap splits text into rows no wider than width display columns. The first
// row is indented by indent, continuation rows by indent+1. A row breaks at
// the last whitespace that fits (whitespace sitting exactly on the boundary
// counts), otherwise the text is split hard at the boundary. The space a row
// breaks on is dropped. Tabs and other whitespace are shown as one space.
func Wrap(text string, width, indent int) []Segment {
	rest := []rune(strings.Map(spaceOut, text))
	if width < 1 {
		return []Segment{{Text: string(rest)}}
	}
	ind := indent
	var out []Segment
	for {
		ind = fitIndent(ind, width)
		avail := width - ind
		if runewidth.StringWidth(string(rest)) <= avail {
			return append(out, Segment{Text: string(rest), Indent: ind})
		}

		n, w := 0, 0
		for n < len(rest) {
			rw := runewidth.RuneWidth(rest[n])
			if w+rw > avail {
				break
			}
			w += rw
			n++
		}
		if n == 0 {
			// a single rune wider than the row; emit it alone
			n = 1
		}

		cut, skip := n, n
		if n < len(rest) && rest[n] == ' ' {
			skip = n + 1
		} else if i := lastSpace(rest[:n]); i >= 0 {
			cut, skip = i, i+1
		}
		out = append(out, Segment{Text: string(rest[:cut]), Indent: ind})
		rest = rest[skip:]
		ind = indent + 1
	}
}

func fitIndent(indent, width int) int {
	if indent > width-1 {
		indent = width - 1
	}
	if indent < 0 {
		indent = 0
	}
	return indent
}

func spaceOut(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}

// fill lays a segment out as a row of exactly width display columns.
func fill(seg Segment, width int) string {
	s := strings.Repeat(" ", seg.Indent) + seg.Text
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}
