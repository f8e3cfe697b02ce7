package nav

import "github.com/kobzarvs/plotline/internal/story"

// Layout says which panes are shown. The left pane lists threads, or the
// beats of Thread when one is open; the right pane lists chapters.
type Layout struct {
	Left     bool     `json:"left"`
	Thread   story.ID `json:"thread,omitempty"`
	Chapters bool     `json:"chapters"`
}

// Columns returns the active columns from left to right.
func (l Layout) Columns() []Column {
	cols := make([]Column, 0, 2)
	if l.Left {
		if l.Thread != "" {
			cols = append(cols, ColumnBeats)
		} else {
			cols = append(cols, ColumnThreads)
		}
	}
	if l.Chapters {
		cols = append(cols, ColumnChapters)
	}
	return cols
}
