// Package nav holds the UI navigation state: which panes are shown, where
// the cursor is and the pick-then-drop gesture built on top of it.
package nav

import (
	"fmt"

	"github.com/kobzarvs/plotline/internal/story"
)

// Column is the kind of list a pane shows.
type Column int

const (
	ColumnNone Column = iota
	ColumnThreads
	ColumnBeats
	ColumnChapters
)

func (c Column) String() string {
	switch c {
	case ColumnNone:
		return "none"
	case ColumnThreads:
		return "threads"
	case ColumnBeats:
		return "beats"
	case ColumnChapters:
		return "chapters"
	}
	return fmt.Sprintf("column(%d)", int(c))
}

// Kind maps the column to the story list kind it displays.
func (c Column) Kind() (story.Kind, bool) {
	switch c {
	case ColumnThreads:
		return story.KindThread, true
	case ColumnBeats:
		return story.KindBeat, true
	case ColumnChapters:
		return story.KindChapter, true
	}
	return 0, false
}

// Side selects one of two simultaneously shown columns.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

const unset = -1

// Cursor addresses one element of one column. A hidden cursor addresses
// nothing; the zero value is hidden.
type Cursor struct {
	visible bool
	index   int
	side    Side
}

func (c Cursor) Visible() bool { return c.visible }
func (c Cursor) Side() Side    { return c.side }

// Index returns the addressed index, or -1 while hidden.
func (c Cursor) Index() int {
	if !c.visible {
		return -1
	}
	return c.index
}

// Column resolves the addressed column against the active columns. A
// hidden cursor, or an empty column list, yields ColumnNone.
func (c Cursor) Column(cols []Column) Column {
	if !c.visible {
		return ColumnNone
	}
	switch len(cols) {
	case 0:
		return ColumnNone
	case 1:
		return cols[0]
	}
	if c.side == SideRight {
		return cols[1]
	}
	return cols[0]
}

// Down shows a hidden cursor at the top, otherwise moves one element down
// within a column of count elements.
func (c *Cursor) Down(count int) {
	if !c.visible {
		c.visible = true
		c.index = 0
		return
	}
	c.index = clamp(c.index+1, count)
}

// Up shows a hidden cursor at the top, otherwise moves one element up.
func (c *Cursor) Up(count int) {
	if !c.visible {
		c.visible = true
		c.index = 0
		return
	}
	c.index = clamp(c.index-1, count)
}

// Left switches to the left column when two are shown. The index is kept
// unless the side changed or the cursor was hidden.
func (c *Cursor) Left(cols []Column) {
	c.move(cols, SideLeft)
}

// Right switches to the right column when two are shown.
func (c *Cursor) Right(cols []Column) {
	c.move(cols, SideRight)
}

func (c *Cursor) move(cols []Column, side Side) {
	switched := false
	if len(cols) == 2 && c.side != side {
		c.side = side
		switched = true
	}
	if !c.visible || switched {
		c.index = 0
	}
	c.visible = true
}

// Reset hides the cursor so the next vertical move starts at the top.
// resetSide also moves it back to the left column.
func (c *Cursor) Reset(resetSide bool) {
	c.visible = false
	c.index = unset
	if resetSide {
		c.side = SideLeft
	}
}

// clamp limits i to [0, count-1]; an empty column pins it to 0.
func clamp(i, count int) int {
	if i >= count {
		i = count - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
