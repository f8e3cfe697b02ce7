package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/plotline/internal/nav"
	"github.com/kobzarvs/plotline/internal/render"
)

const (
	itemIndent    = 2
	childIndent   = 4
	emptyHint     = "1: threads   2: chapters"
	untitledStory = "[Untitled]"
)

// Render draws a complete frame. The only error it returns is an invariant
// violation; the caller is expected to stop.
func (e *Editor) Render(s tcell.Screen) error {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return nil
	}

	statusY := h - 2
	cmdY := h - 1
	viewHeight := h - 2 - e.topMargin
	if h < 2 {
		statusY = h - 1
		cmdY = h - 1
	}
	viewHeight = max(viewHeight, 0)

	s.SetStyle(e.styleMain)
	s.Clear()

	cols := e.nav.Columns()
	panes := make([][]render.Line, 0, len(cols))
	for i, col := range cols {
		lines, err := e.paneLines(col, innerWidth(w, len(cols), i))
		if err != nil {
			e.err = err
			return err
		}
		panes = append(panes, lines)
	}

	x := 0
	for i, col := range cols {
		f, err := render.Render(render.Options{
			Width:  innerWidth(w, len(cols), i),
			Height: viewHeight,
			Style:  e.lineStyle,
		}, panes[i], e.tops[col])
		if err != nil {
			e.err = err
			return err
		}
		e.tops[col] = f.Top
		render.Blit(s, x+1, e.topMargin, f)
		x += paneWidth(w, len(cols), i)
	}
	if len(cols) == 0 && viewHeight > 0 {
		hint := emptyHint
		hx := max((w-runewidth.StringWidth(hint))/2, 0)
		drawText(s, hx, e.topMargin+viewHeight/2, w-hx, hint, e.styleMain)
	}

	if statusY >= 0 {
		e.renderStatusline(s, w, statusY)
	}
	if cmdY >= 0 && cmdY != statusY {
		e.renderCommandline(s, w, cmdY)
	}
	s.Show()
	return nil
}

// paneWidth splits the screen width evenly; the last pane takes the odd
// column.
func paneWidth(w, panes, i int) int {
	if panes <= 1 {
		return w
	}
	half := w / 2
	if i == panes-1 {
		return w - half
	}
	return half
}

// innerWidth is the text width of pane i, leaving a one column gutter.
func innerWidth(w, panes, i int) int {
	return max(paneWidth(w, panes, i)-1, 0)
}

func (e *Editor) paneLines(col nav.Column, width int) ([]render.Line, error) {
	switch col {
	case nav.ColumnThreads:
		return e.threadLines(width), nil
	case nav.ColumnBeats:
		return e.beatLines(width)
	case nav.ColumnChapters:
		return e.chapterLines(width), nil
	}
	return nil, fmt.Errorf("%w: no pane for column %s", render.ErrInvariant, col)
}

// state reports whether row i of col is under the cursor or picked up.
func (e *Editor) state(col nav.Column, i int) (highlighted, marked bool) {
	highlighted = e.nav.Column() == col && e.nav.Index() == i
	if p, ok := e.nav.Pick(); ok {
		marked = p.Column == col && p.Index == i
	}
	return highlighted, marked
}

func (e *Editor) storyName() string {
	if e.story.Name == "" {
		return untitledStory
	}
	return e.story.Name
}

func header(text, color string, width int) []render.Line {
	return []render.Line{
		{Text: text, Color: color, Header: true},
		{Text: dashes(width), Color: color, Header: true},
	}
}

func dashes(n int) string {
	return strings.Repeat("-", max(n, 1))
}

func underline(text string, indent, width int) string {
	return dashes(min(runewidth.StringWidth(text), width-indent))
}

func (e *Editor) threadLines(width int) []render.Line {
	lines := header(e.storyName(), "", width)
	for i, t := range e.story.Threads() {
		hl, mk := e.state(nav.ColumnThreads, i)
		lines = append(lines,
			render.Line{},
			render.Line{Text: t.Name(), Indent: itemIndent, Color: t.Color(), Highlighted: hl, Marked: mk},
			render.Line{Text: underline(t.Name(), itemIndent, width), Indent: itemIndent, Color: t.Color()},
		)
	}
	return lines
}

func (e *Editor) beatLines(width int) ([]render.Line, error) {
	t, ok := e.story.ThreadByID(e.nav.Layout().Thread)
	if !ok {
		return nil, fmt.Errorf("%w: open thread %s is not in the story", render.ErrInvariant, e.nav.Layout().Thread)
	}
	lines := header(t.Name(), t.Color(), width)
	for i, b := range t.Beats() {
		hl, mk := e.state(nav.ColumnBeats, i)
		text := b.Name()
		if c, ok := e.story.ChapterOf(b.ID()); ok {
			text = fmt.Sprintf("%s (Chapter %d)", text, c.Position()+1)
		}
		lines = append(lines,
			render.Line{},
			render.Line{Text: text, Indent: itemIndent, Highlighted: hl, Marked: mk},
		)
	}
	return lines, nil
}

func (e *Editor) chapterLines(width int) []render.Line {
	lines := header(e.storyName(), "", width)
	for i, c := range e.story.Chapters() {
		hl, mk := e.state(nav.ColumnChapters, i)
		title := fmt.Sprintf("%d. %s", i+1, c.Name())
		lines = append(lines,
			render.Line{},
			render.Line{Text: title, Indent: itemIndent, Highlighted: hl, Marked: mk},
			render.Line{Text: underline(title, itemIndent, width), Indent: itemIndent},
		)
		for _, b := range e.story.BeatsOf(c.ID()) {
			color := ""
			if t, ok := e.story.ThreadByID(b.Thread()); ok {
				color = t.Color()
			}
			lines = append(lines, render.Line{Text: b.Name(), Indent: childIndent, Color: color})
		}
	}
	return lines
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	name := e.path
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	dirty := ""
	if e.dirty {
		dirty = "*"
	}

	status := fmt.Sprintf(" %s | %s%s ", e.mode, name, dirty)
	if e.statusMessage != "" {
		status = fmt.Sprintf(" %s | %s%s | %s ", e.mode, name, dirty, e.statusMessage)
	}
	var right []string
	if p, ok := e.nav.Pick(); ok {
		right = append(right, fmt.Sprintf("moving %s %d", p.Column, p.Index+1))
	}
	if col := e.nav.Column(); col != nav.ColumnNone {
		right = append(right, fmt.Sprintf("%s %d", col, e.nav.Index()+1))
	}
	if e.plain {
		right = append(right, "plain")
	}
	if e.gitBranch != "" {
		right = append(right, formatGitBranch(e.gitBranchSymbol, e.gitBranch))
	}
	rightText := ""
	if len(right) > 0 {
		rightText = " " + strings.Join(right, " | ") + " "
	}

	style := e.styleStatus
	if e.statusIsError {
		style = style.Foreground(e.colorError)
	}
	line := composeStatusLine(status, rightText, w)
	for x, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, style)
	}
}

func (e *Editor) renderCommandline(s tcell.Screen, w, y int) {
	clearLine(s, y, w, e.styleCommand)
	switch e.mode {
	case ModePrompt:
		drawText(s, 0, y, w, e.promptLabel+string(e.prompt), e.styleCommand)
		cx := runewidth.StringWidth(e.promptLabel) + runewidth.StringWidth(string(e.prompt[:e.promptCursor]))
		s.SetCursorStyle(tcell.CursorStyleSteadyBar)
		s.ShowCursor(min(cx, w-1), y)
		return
	case ModeConfirm:
		drawText(s, 0, y, w, e.question, e.styleCommand)
	}
	s.HideCursor()
}

func drawText(s tcell.Screen, x, y, w int, text string, style tcell.Style) {
	end := x + w
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > end {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	spaceCount := max(width-len(leftRunes)-len(rightRunes), 0)
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := 0; i < spaceCount; i++ {
		line = append(line, ' ')
	}
	line = append(line, rightRunes...)
	return line
}

func formatGitBranch(symbol, branch string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = "git:"
	}
	if strings.HasSuffix(symbol, ":") || strings.HasSuffix(symbol, " ") {
		return symbol + branch
	}
	return symbol + " " + branch
}
