package nav

import (
	"fmt"

	"github.com/kobzarvs/plotline/internal/story"
)

// Outcome reports what a confirm action did.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePicked
	OutcomeReordered
	OutcomeLinked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomePicked:
		return "picked"
	case OutcomeReordered:
		return "reordered"
	case OutcomeLinked:
		return "linked"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Pick is the element picked up by the first half of a gesture. It is a
// value snapshot of the cursor, resolved against the lists as they are when
// the gesture is dropped.
type Pick struct {
	Column Column
	Index  int
}

// Lists is what the gesture needs from the story.
type Lists interface {
	Len(col Column) int
	Reorder(col Column, from, to int) error
	Assign(beat, chapter int) error
}

// Navigator is the complete UI navigation state. It holds no pointers, so
// copying the value snapshots it.
type Navigator struct {
	layout  Layout
	cursor  Cursor
	pick    Pick
	picking bool
}

// New returns a navigator with the given layout and a hidden cursor.
func New(layout Layout) Navigator {
	n := Navigator{layout: layout}
	n.Reset(true)
	return n
}

func (n *Navigator) Layout() Layout     { return n.layout }
func (n *Navigator) Columns() []Column  { return n.layout.Columns() }
func (n *Navigator) Cursor() Cursor     { return n.cursor }
func (n *Navigator) Column() Column     { return n.cursor.Column(n.Columns()) }
func (n *Navigator) Index() int         { return n.cursor.Index() }
func (n *Navigator) Pick() (Pick, bool) { return n.pick, n.picking }

// SetLayout replaces the pane layout. Any layout change resets the cursor
// to the left side, so a stale side/index pair is never read.
func (n *Navigator) SetLayout(l Layout) {
	n.layout = l
	n.Reset(true)
}

// ToggleLeft shows or hides the left pane; it always comes back as the
// thread list.
func (n *Navigator) ToggleLeft() {
	n.SetLayout(Layout{Left: !n.layout.Left, Chapters: n.layout.Chapters})
}

func (n *Navigator) ToggleChapters() {
	l := n.layout
	l.Chapters = !l.Chapters
	n.SetLayout(l)
}

// OpenThread shows the beats of thread in the left pane.
func (n *Navigator) OpenThread(thread story.ID) {
	n.SetLayout(Layout{Left: true, Thread: thread, Chapters: n.layout.Chapters})
}

// CloseThread returns the left pane to the thread list.
func (n *Navigator) CloseThread() {
	l := n.layout
	l.Thread = ""
	n.SetLayout(l)
}

// Reset hides the cursor and drops any pending pick.
func (n *Navigator) Reset(resetSide bool) {
	n.picking = false
	n.pick = Pick{}
	n.cursor.Reset(resetSide)
}

// Cancel drops a pending pick and hides the cursor, keeping its side.
func (n *Navigator) Cancel() {
	n.Reset(false)
}

func (n *Navigator) Down(lists Lists) {
	if len(n.Columns()) == 0 {
		return
	}
	n.cursor.Down(lists.Len(n.Column()))
}

func (n *Navigator) Up(lists Lists) {
	if len(n.Columns()) == 0 {
		return
	}
	n.cursor.Up(lists.Len(n.Column()))
}

// Left and Right always show the cursor; with no active column it still
// addresses ColumnNone.
func (n *Navigator) Left() {
	n.cursor.Left(n.Columns())
}

func (n *Navigator) Right() {
	n.cursor.Right(n.Columns())
}

// Confirm runs one half of the pick-then-drop gesture. The first call picks
// up the element under the cursor. The second call drops it: within the
// same column the element is reordered to the cursor, and a beat dropped on
// the chapters column is assigned to the chapter under the cursor. Any
// other drop does nothing. A drop always clears the pick and hides the
// cursor.
func (n *Navigator) Confirm(lists Lists) (Outcome, error) {
	col := n.Column()
	if col == ColumnNone {
		return OutcomeNone, nil
	}
	if !n.picking {
		if lists.Len(col) == 0 {
			return OutcomeNone, nil
		}
		n.pick = Pick{Column: col, Index: n.cursor.Index()}
		n.picking = true
		return OutcomePicked, nil
	}

	pick, at := n.pick, n.cursor.Index()
	defer n.Reset(false)
	switch {
	case col == pick.Column:
		if err := lists.Reorder(col, pick.Index, at); err != nil {
			return OutcomeNone, err
		}
		return OutcomeReordered, nil
	case pick.Column == ColumnBeats && col == ColumnChapters:
		if lists.Len(ColumnChapters) == 0 {
			return OutcomeNone, nil
		}
		if err := lists.Assign(pick.Index, at); err != nil {
			return OutcomeNone, err
		}
		return OutcomeLinked, nil
	}
	return OutcomeNone, nil
}
