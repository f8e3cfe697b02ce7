// Package story holds the narrative model: a story's ordered chapters, its
// parallel threads of beats, and the chapter assignment of each beat.
package story

import (
	"fmt"
	"sort"

	"github.com/oklog/ulid/v2"
)

// ID is a stable identifier for a chapter, thread or beat.
type ID string

// NewID returns a fresh identifier.
func NewID() ID {
	return ID(ulid.Make().String())
}

type Chapter struct {
	id   ID
	name string
	pos  int
}

func (c *Chapter) ID() ID              { return c.id }
func (c *Chapter) Name() string        { return c.name }
func (c *Chapter) Position() int       { return c.pos }
func (c *Chapter) setName(name string) { c.name = name }
func (c *Chapter) setPosition(pos int) { c.pos = pos }

// Thread owns an ordered list of beats.
type Thread struct {
	id    ID
	name  string
	pos   int
	color string
	beats OrderedCollection[*Beat]
}

func (t *Thread) ID() ID              { return t.id }
func (t *Thread) Name() string        { return t.name }
func (t *Thread) Position() int       { return t.pos }
func (t *Thread) Color() string       { return t.color }
func (t *Thread) setName(name string) { t.name = name }
func (t *Thread) setPosition(pos int) { t.pos = pos }

// Beats returns the thread's beats in order.
func (t *Thread) Beats() []*Beat { return t.beats.Items() }

// BeatCount returns the number of beats in the thread.
func (t *Thread) BeatCount() int { return t.beats.Len() }

type Beat struct {
	id     ID
	name   string
	pos    int
	thread ID
}

func (b *Beat) ID() ID              { return b.id }
func (b *Beat) Name() string        { return b.name }
func (b *Beat) Position() int       { return b.pos }
func (b *Beat) Thread() ID          { return b.thread }
func (b *Beat) setName(name string) { b.name = name }
func (b *Beat) setPosition(pos int) { b.pos = pos }

// Story is the root of the model. Beat/chapter links live in explicit
// index maps rather than in the elements themselves.
type Story struct {
	Name string

	chapters OrderedCollection[*Chapter]
	threads  OrderedCollection[*Thread]
	beats    map[ID]*Beat
	links    links
}

// New returns an empty story.
func New(name string) *Story {
	s := &Story{
		Name:  name,
		beats: make(map[ID]*Beat),
		links: newLinks(),
	}
	s.chapters.onDelete = func(c *Chapter) {
		s.links.clearChapter(c.id)
	}
	return s
}

func (s *Story) newThread(id ID, name, color string) *Thread {
	t := &Thread{id: id, name: name, color: color}
	t.beats.onDelete = func(b *Beat) {
		s.links.detach(b.id)
		delete(s.beats, b.id)
	}
	return t
}

func (s *Story) Chapters() []*Chapter { return s.chapters.Items() }
func (s *Story) Threads() []*Thread   { return s.threads.Items() }
func (s *Story) ChapterCount() int    { return s.chapters.Len() }
func (s *Story) ThreadCount() int     { return s.threads.Len() }

func (s *Story) Chapter(i int) (*Chapter, error) { return s.chapters.At(i) }
func (s *Story) Thread(i int) (*Thread, error)   { return s.threads.At(i) }

// ThreadByID looks a thread up by its identifier.
func (s *Story) ThreadByID(id ID) (*Thread, bool) {
	i := s.threads.IndexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.threads.items[i], true
}

// ChapterByID looks a chapter up by its identifier.
func (s *Story) ChapterByID(id ID) (*Chapter, bool) {
	i := s.chapters.IndexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.chapters.items[i], true
}

// Beat looks a beat up by its identifier.
func (s *Story) Beat(id ID) (*Beat, bool) {
	b, ok := s.beats[id]
	return b, ok
}

func (s *Story) AddChapter(index int, name string) (*Chapter, error) {
	c := &Chapter{id: NewID(), name: name}
	if err := s.chapters.Insert(index, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Story) AddThread(index int, name, color string) (*Thread, error) {
	t := s.newThread(NewID(), name, color)
	if err := s.threads.Insert(index, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Story) AddBeat(thread ID, index int, name string) (*Beat, error) {
	t, ok := s.ThreadByID(thread)
	if !ok {
		return nil, fmt.Errorf("%w: thread %s", ErrNotFound, thread)
	}
	b := &Beat{id: NewID(), name: name, thread: t.id}
	if err := t.beats.Insert(index, b); err != nil {
		return nil, err
	}
	s.beats[b.id] = b
	return b, nil
}

func (s *Story) MoveChapter(from, to int) error { return s.chapters.Reorder(from, to) }
func (s *Story) MoveThread(from, to int) error  { return s.threads.Reorder(from, to) }

func (s *Story) MoveBeat(thread ID, from, to int) error {
	t, ok := s.ThreadByID(thread)
	if !ok {
		return fmt.Errorf("%w: thread %s", ErrNotFound, thread)
	}
	return t.beats.Reorder(from, to)
}

// DeleteChapter removes the chapter and clears the chapter reference of
// every beat that was assigned to it.
func (s *Story) DeleteChapter(index int) error {
	_, err := s.chapters.Delete(index)
	return err
}

// DeleteThread removes an empty thread. A thread that still owns beats is
// left in place and ErrThreadHasBeats is returned.
func (s *Story) DeleteThread(index int) error {
	t, err := s.threads.At(index)
	if err != nil {
		return err
	}
	if n := t.beats.Len(); n > 0 {
		return fmt.Errorf("%w: %q has %d", ErrThreadHasBeats, t.name, n)
	}
	_, err = s.threads.Delete(index)
	return err
}

// DeleteBeat removes the beat from its thread and from its chapter, if any.
func (s *Story) DeleteBeat(thread ID, index int) error {
	t, ok := s.ThreadByID(thread)
	if !ok {
		return fmt.Errorf("%w: thread %s", ErrNotFound, thread)
	}
	_, err := t.beats.Delete(index)
	return err
}

// SetThreadColor changes the display color tag of a thread.
func (s *Story) SetThreadColor(thread ID, color string) error {
	t, ok := s.ThreadByID(thread)
	if !ok {
		return fmt.Errorf("%w: thread %s", ErrNotFound, thread)
	}
	t.color = color
	return nil
}

// AssignBeat moves the beat into the chapter's set, detaching it from the
// chapter it was previously assigned to.
func (s *Story) AssignBeat(beat, chapter ID) error {
	if _, ok := s.beats[beat]; !ok {
		return fmt.Errorf("%w: beat %s", ErrNotFound, beat)
	}
	if _, ok := s.ChapterByID(chapter); !ok {
		return fmt.Errorf("%w: chapter %s", ErrNotFound, chapter)
	}
	s.links.assign(beat, chapter)
	return nil
}

// UnassignBeat clears the beat's chapter reference, if any.
func (s *Story) UnassignBeat(beat ID) error {
	if _, ok := s.beats[beat]; !ok {
		return fmt.Errorf("%w: beat %s", ErrNotFound, beat)
	}
	s.links.detach(beat)
	return nil
}

// ChapterOf returns the chapter the beat is assigned to.
func (s *Story) ChapterOf(beat ID) (*Chapter, bool) {
	id, ok := s.links.chapterOfBeat[beat]
	if !ok {
		return nil, false
	}
	return s.ChapterByID(id)
}

// BeatsOf returns the beats assigned to the chapter, ordered by thread
// position and then by position within the thread.
func (s *Story) BeatsOf(chapter ID) []*Beat {
	set := s.links.beatsOfChapter[chapter]
	out := make([]*Beat, 0, len(set))
	threadPos := make(map[ID]int, s.threads.Len())
	for _, t := range s.threads.items {
		threadPos[t.id] = t.pos
	}
	for id := range set {
		if b, ok := s.beats[id]; ok {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := threadPos[out[i].thread], threadPos[out[j].thread]
		if ti != tj {
			return ti < tj
		}
		return out[i].pos < out[j].pos
	})
	return out
}

// Validate checks every structural invariant of the story.
func (s *Story) Validate() error {
	if err := s.chapters.checkPositions("chapter"); err != nil {
		return err
	}
	if err := s.threads.checkPositions("thread"); err != nil {
		return err
	}
	seen := make(map[ID]bool)
	for _, c := range s.chapters.items {
		if seen[c.id] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvariant, c.id)
		}
		seen[c.id] = true
	}
	owned := 0
	for _, t := range s.threads.items {
		if seen[t.id] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvariant, t.id)
		}
		seen[t.id] = true
		if err := t.beats.checkPositions("beat"); err != nil {
			return err
		}
		for _, b := range t.beats.items {
			if seen[b.id] {
				return fmt.Errorf("%w: duplicate id %s", ErrInvariant, b.id)
			}
			seen[b.id] = true
			if b.thread != t.id {
				return fmt.Errorf("%w: beat %q owned by %s but listed in %s", ErrInvariant, b.name, b.thread, t.id)
			}
			if s.beats[b.id] != b {
				return fmt.Errorf("%w: beat %q missing from index", ErrInvariant, b.name)
			}
			owned++
		}
	}
	if owned != len(s.beats) {
		return fmt.Errorf("%w: %d indexed beats, %d owned by threads", ErrInvariant, len(s.beats), owned)
	}
	return s.links.check(s)
}
