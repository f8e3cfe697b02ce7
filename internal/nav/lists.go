package nav

import (
	"fmt"

	"github.com/kobzarvs/plotline/internal/story"
)

// StoryLists exposes a story to the navigator. Thread names the thread whose
// beats the beats column shows.
type StoryLists struct {
	Story  *story.Story
	Thread story.ID
}

// List returns the story list behind a column.
func (l StoryLists) List(col Column) (story.List, error) {
	kind, ok := col.Kind()
	if !ok {
		return nil, fmt.Errorf("%w: no list for column %s", story.ErrNotFound, col)
	}
	return l.Story.List(kind, l.Thread)
}

func (l StoryLists) Len(col Column) int {
	list, err := l.List(col)
	if err != nil {
		return 0
	}
	return list.Len()
}

func (l StoryLists) Reorder(col Column, from, to int) error {
	list, err := l.List(col)
	if err != nil {
		return err
	}
	return list.Reorder(from, to)
}

// Assign links the beat at index beat of the open thread to the chapter at
// index chapter.
func (l StoryLists) Assign(beat, chapter int) error {
	beats, err := l.List(ColumnBeats)
	if err != nil {
		return err
	}
	chapters, err := l.List(ColumnChapters)
	if err != nil {
		return err
	}
	beatID, err := beats.ID(beat)
	if err != nil {
		return err
	}
	chapterID, err := chapters.ID(chapter)
	if err != nil {
		return err
	}
	return l.Story.AssignBeat(beatID, chapterID)
}
