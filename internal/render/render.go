// Package render lays pane content out into fixed size frames: word wrap,
// pinned header rows and a scroll window that follows the highlighted lines.
package render

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var (
	// ErrInvariant reports input that the calling layer should never produce.
	ErrInvariant = errors.New("render: invariant violation")
	// ErrHeaderOrder is returned when a header line follows a body line.
	ErrHeaderOrder = fmt.Errorf("%w: header lines must be a contiguous prefix", ErrInvariant)
)

// scrollPad is the number of context rows kept around the highlighted span.
const scrollPad = 2

// Line is one logical line of pane content.
type Line struct {
	Text   string
	Indent int
	// Color is the element's color tag, resolved by Options.Style.
	Color       string
	Highlighted bool
	// Marked flags the element picked up by a pending gesture.
	Marked bool
	Header bool
}

type Options struct {
	Width  int
	Height int
	// Style resolves the style of every row produced by a line. Blank
	// padding rows use Style(Line{}). Nil means tcell.StyleDefault.
	Style func(Line) tcell.Style
}

type Row struct {
	Text  string
	Style tcell.Style
}

// Frame is a rendered pane: exactly Height rows of exactly Width columns.
type Frame struct {
	Width   int
	Height  int
	Rows    []Row
	Headers int
	// Top is the first body row shown; feed it back as prevTop next frame.
	Top int
}

// Render lays lines out into a Width x Height frame. It is a pure function
// of its arguments.
func Render(opts Options, lines []Line, prevTop int) (Frame, error) {
	if err := checkHeaders(lines); err != nil {
		return Frame{}, err
	}
	width, height := max(opts.Width, 0), max(opts.Height, 0)
	style := opts.Style
	if style == nil {
		style = func(Line) tcell.Style { return tcell.StyleDefault }
	}

	var head, body []Row
	lo, hi := -1, -1
	for _, l := range lines {
		st := style(l)
		for _, seg := range Wrap(l.Text, width, l.Indent) {
			row := Row{Text: fill(seg, width), Style: st}
			if l.Header {
				head = append(head, row)
				continue
			}
			if l.Highlighted {
				if lo < 0 {
					lo = len(body)
				}
				hi = len(body)
			}
			body = append(body, row)
		}
	}

	f := Frame{Width: width, Height: height, Rows: make([]Row, 0, height)}
	if len(head) > height {
		head = head[:height]
	}
	f.Headers = len(head)
	f.Rows = append(f.Rows, head...)

	size := height - len(head)
	f.Top = scrollTop(len(body), size, lo, hi, prevTop)
	if size > 0 {
		end := min(f.Top+size, len(body))
		f.Rows = append(f.Rows, body[f.Top:end]...)
	}

	blank := Row{Text: fill(Segment{}, width), Style: style(Line{})}
	for len(f.Rows) < height {
		f.Rows = append(f.Rows, blank)
	}
	return f, nil
}

func checkHeaders(lines []Line) error {
	for i, l := range lines {
		if l.Header && i > 0 && !lines[i-1].Header {
			return fmt.Errorf("%w: line %d %q", ErrHeaderOrder, i, l.Text)
		}
	}
	return nil
}

// scrollTop picks the first visible body row. lo and hi are the first and
// last highlighted rows, or -1 when nothing is highlighted.
func scrollTop(n, size, lo, hi, prevTop int) int {
	if size <= 0 {
		return 0
	}
	maxTop := max(n-size, 0)
	top := min(max(prevTop, 0), maxTop)
	if lo < 0 {
		return top
	}

	fits := func(a, b int) bool { return b-a+1 <= size }
	padLo := max(lo-scrollPad, 0)
	padHi := min(hi+scrollPad, n-1)
	bottom := top + size - 1

	if top <= lo && lo <= bottom && !fits(padLo, padHi) && fits(lo, hi) {
		top = hi - size + 1
	} else {
		a, b := padLo, padHi
		if !fits(a, b) && fits(lo, hi) {
			a, b = lo, hi
		}
		if a < top {
			top = a
		} else if b > bottom {
			top = b - size + 1
			if top > a {
				top = a
			}
		}
	}
	return min(max(top, 0), maxTop)
}

// Blit copies the frame onto the screen with its top left cell at (x, y).
func Blit(s tcell.Screen, x, y int, f Frame) {
	for i, row := range f.Rows {
		col := x
		for _, r := range row.Text {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			s.SetContent(col, y+i, r, nil, row.Style)
			col += w
		}
	}
}
