// Package store reads and writes stories as JSON documents.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kobzarvs/plotline/internal/story"
)

// ErrFormat is returned when a file is not a valid story document.
var ErrFormat = errors.New("store: malformed story file")

type document struct {
	Name     string        `json:"name"`
	Chapters []chapterJSON `json:"chapters"`
	Threads  []threadJSON  `json:"threads"`
}

type chapterJSON struct {
	ID   story.ID `json:"id"`
	Name string   `json:"name"`
}

type threadJSON struct {
	ID    story.ID   `json:"id"`
	Name  string     `json:"name"`
	Color string     `json:"color,omitempty"`
	Beats []beatJSON `json:"beats"`
}

type beatJSON struct {
	ID      story.ID `json:"id"`
	Name    string   `json:"name"`
	Chapter story.ID `json:"chapter,omitempty"`
}

// Load reads a story file. The returned story satisfies every story
// invariant; on error nothing is returned.
func Load(path string) (*story.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode builds a story from a JSON document.
func Decode(data []byte) (*story.Story, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	b := story.NewBuilder(doc.Name)
	for _, c := range doc.Chapters {
		b.Chapter(c.ID, c.Name)
	}
	for _, t := range doc.Threads {
		if t.ID == "" {
			t.ID = story.NewID()
		}
		b.Thread(t.ID, t.Name, t.Color)
		for _, beat := range t.Beats {
			b.Beat(t.ID, beat.ID, beat.Name, beat.Chapter)
		}
	}
	s, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return s, nil
}

// Encode renders the story as an indented JSON document.
func Encode(s *story.Story) ([]byte, error) {
	doc := document{
		Name:     s.Name,
		Chapters: make([]chapterJSON, 0, s.ChapterCount()),
		Threads:  make([]threadJSON, 0, s.ThreadCount()),
	}
	for _, c := range s.Chapters() {
		doc.Chapters = append(doc.Chapters, chapterJSON{ID: c.ID(), Name: c.Name()})
	}
	for _, t := range s.Threads() {
		tj := threadJSON{ID: t.ID(), Name: t.Name(), Color: t.Color(), Beats: make([]beatJSON, 0, t.BeatCount())}
		for _, b := range t.Beats() {
			bj := beatJSON{ID: b.ID(), Name: b.Name()}
			if c, ok := s.ChapterOf(b.ID()); ok {
				bj.Chapter = c.ID()
			}
			tj.Beats = append(tj.Beats, bj)
		}
		doc.Threads = append(doc.Threads, tj)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes the story to path. The document is written to a temporary
// file in the same directory and renamed over path, so a failed save leaves
// the previous contents in place.
func Save(s *story.Story, path string) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	tmpName = ""
	return nil
}
