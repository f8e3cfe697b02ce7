package editor

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/kobzarvs/plotline/internal/render"
)

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") {
		c, err := colorful.Hex(name)
		if err != nil {
			return fallback
		}
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

// contrastColor returns black or white, whichever reads better on bg.
func contrastColor(bg tcell.Color) tcell.Color {
	if !bg.Valid() {
		return tcell.ColorBlack
	}
	r, g, b := bg.RGB()
	if r < 0 {
		return tcell.ColorBlack
	}
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	if l, _, _ := c.Lab(); l < 0.55 {
		return tcell.ColorWhite
	}
	return tcell.ColorBlack
}

// threadColor resolves a thread color tag; ok is false for an empty or
// unparsable tag.
func (e *Editor) threadColor(tag string) (tcell.Color, bool) {
	if tag == "" {
		return 0, false
	}
	if c, ok := e.colors[tag]; ok {
		return c, c != tcell.ColorDefault
	}
	c := parseColor(tag, tcell.ColorDefault)
	e.colors[tag] = c
	return c, c != tcell.ColorDefault
}

// lineStyle is the render.Options.Style of every pane. Highlighted rows take
// the element's color as background; in plain mode they use the theme
// foreground instead.
func (e *Editor) lineStyle(l render.Line) tcell.Style {
	st := e.styleMain
	if l.Header {
		st = e.styleHeader
	}
	fg, colored := e.threadColor(l.Color)
	colored = colored && !e.plain
	if colored {
		st = st.Foreground(fg)
	}
	if l.Marked {
		st = st.Foreground(e.colorMarked).Underline(true)
	}
	if l.Highlighted {
		bg := e.colorHighlight
		if colored {
			bg = fg
		}
		st = st.Background(bg).Foreground(contrastColor(bg))
	}
	return st
}
