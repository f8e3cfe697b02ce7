package story

import (
	"errors"
	"math/rand"
	"testing"
)

func mustAddChapter(t *testing.T, s *Story, index int, name string) *Chapter {
	t.Helper()
	c, err := s.AddChapter(index, name)
	if err != nil {
		t.Fatalf("AddChapter(%d, %q): %v", index, name, err)
	}
	return c
}

func mustAddThread(t *testing.T, s *Story, index int, name string) *Thread {
	t.Helper()
	th, err := s.AddThread(index, name, "")
	if err != nil {
		t.Fatalf("AddThread(%d, %q): %v", index, name, err)
	}
	return th
}

func mustAddBeat(t *testing.T, s *Story, thread *Thread, index int, name string) *Beat {
	t.Helper()
	b, err := s.AddBeat(thread.ID(), index, name)
	if err != nil {
		t.Fatalf("AddBeat(%d, %q): %v", index, name, err)
	}
	return b
}

// checkSymmetry verifies beat.chapter == C iff C's set contains beat.
func checkSymmetry(t *testing.T, s *Story) {
	t.Helper()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, c := range s.Chapters() {
		for _, b := range s.BeatsOf(c.ID()) {
			got, ok := s.ChapterOf(b.ID())
			if !ok || got != c {
				t.Fatalf("beat %q listed in %q but ChapterOf = %v", b.Name(), c.Name(), got)
			}
		}
	}
	for _, th := range s.Threads() {
		for _, b := range th.Beats() {
			c, ok := s.ChapterOf(b.ID())
			if !ok {
				continue
			}
			found := false
			for _, other := range s.BeatsOf(c.ID()) {
				if other == b {
					found = true
				}
			}
			if !found {
				t.Fatalf("beat %q points at %q which does not list it", b.Name(), c.Name())
			}
		}
	}
}

func TestDeleteChapterClearsBeatReferences(t *testing.T) {
	s := New("story")
	c0 := mustAddChapter(t, s, 0, "zero")
	c := mustAddChapter(t, s, 1, "doomed")
	mustAddChapter(t, s, 2, "two")
	th := mustAddThread(t, s, 0, "thread")
	b1 := mustAddBeat(t, s, th, 0, "b1")
	b2 := mustAddBeat(t, s, th, 1, "b2")
	b3 := mustAddBeat(t, s, th, 2, "b3")
	for _, b := range []*Beat{b1, b2} {
		if err := s.AssignBeat(b.ID(), c.ID()); err != nil {
			t.Fatalf("AssignBeat: %v", err)
		}
	}
	if err := s.AssignBeat(b3.ID(), c0.ID()); err != nil {
		t.Fatalf("AssignBeat: %v", err)
	}

	if err := s.DeleteChapter(1); err != nil {
		t.Fatalf("DeleteChapter: %v", err)
	}
	for _, b := range []*Beat{b1, b2} {
		if ch, ok := s.ChapterOf(b.ID()); ok {
			t.Fatalf("beat %q still assigned to %q", b.Name(), ch.Name())
		}
	}
	if ch, ok := s.ChapterOf(b3.ID()); !ok || ch != c0 {
		t.Fatalf("unrelated beat lost its chapter")
	}
	if _, ok := s.ChapterByID(c.ID()); ok {
		t.Fatalf("deleted chapter still present")
	}
	for i, ch := range s.Chapters() {
		if ch.Position() != i {
			t.Fatalf("chapter %q position = %d, want %d", ch.Name(), ch.Position(), i)
		}
	}
	if s.ChapterCount() != 2 {
		t.Fatalf("chapter count = %d, want 2", s.ChapterCount())
	}
	checkSymmetry(t, s)
}

func TestAssignBeatMovesBetweenChapters(t *testing.T) {
	s := New("story")
	a := mustAddChapter(t, s, 0, "a")
	b := mustAddChapter(t, s, 1, "b")
	th := mustAddThread(t, s, 0, "thread")
	beat := mustAddBeat(t, s, th, 0, "beat")

	if err := s.AssignBeat(beat.ID(), a.ID()); err != nil {
		t.Fatalf("AssignBeat: %v", err)
	}
	if err := s.AssignBeat(beat.ID(), b.ID()); err != nil {
		t.Fatalf("AssignBeat: %v", err)
	}
	if got := s.BeatsOf(a.ID()); len(got) != 0 {
		t.Fatalf("old chapter still lists %d beats", len(got))
	}
	if got := s.BeatsOf(b.ID()); len(got) != 1 || got[0] != beat {
		t.Fatalf("new chapter beats = %v, want [beat]", got)
	}
	checkSymmetry(t, s)

	if err := s.UnassignBeat(beat.ID()); err != nil {
		t.Fatalf("UnassignBeat: %v", err)
	}
	if _, ok := s.ChapterOf(beat.ID()); ok {
		t.Fatalf("beat still assigned after unassign")
	}
	checkSymmetry(t, s)
}

func TestAssignBeatUnknownIDs(t *testing.T) {
	s := New("story")
	c := mustAddChapter(t, s, 0, "c")
	th := mustAddThread(t, s, 0, "t")
	beat := mustAddBeat(t, s, th, 0, "b")
	if err := s.AssignBeat("nope", c.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown beat err = %v, want ErrNotFound", err)
	}
	if err := s.AssignBeat(beat.ID(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown chapter err = %v, want ErrNotFound", err)
	}
}

func TestDeleteBeatDetachesFromChapter(t *testing.T) {
	s := New("story")
	c := mustAddChapter(t, s, 0, "c")
	th := mustAddThread(t, s, 0, "t")
	mustAddBeat(t, s, th, 0, "keep")
	gone := mustAddBeat(t, s, th, 1, "gone")
	if err := s.AssignBeat(gone.ID(), c.ID()); err != nil {
		t.Fatalf("AssignBeat: %v", err)
	}
	if err := s.DeleteBeat(th.ID(), 1); err != nil {
		t.Fatalf("DeleteBeat: %v", err)
	}
	if got := s.BeatsOf(c.ID()); len(got) != 0 {
		t.Fatalf("chapter still lists deleted beat")
	}
	if _, ok := s.Beat(gone.ID()); ok {
		t.Fatalf("deleted beat still indexed")
	}
	checkSymmetry(t, s)
}

func TestDeleteThreadWithBeatsIsRejected(t *testing.T) {
	s := New("story")
	th := mustAddThread(t, s, 0, "busy")
	mustAddThread(t, s, 1, "idle")
	mustAddBeat(t, s, th, 0, "b")

	err := s.DeleteThread(0)
	if !errors.Is(err, ErrThreadHasBeats) {
		t.Fatalf("DeleteThread err = %v, want ErrThreadHasBeats", err)
	}
	if s.ThreadCount() != 2 || th.BeatCount() != 1 {
		t.Fatalf("state changed after rejected delete")
	}
	if err := s.DeleteThread(1); err != nil {
		t.Fatalf("DeleteThread(empty): %v", err)
	}
	if s.ThreadCount() != 1 {
		t.Fatalf("thread count = %d, want 1", s.ThreadCount())
	}
}

func TestListDispatchByKind(t *testing.T) {
	s := New("story")
	th := mustAddThread(t, s, 0, "t")
	cases := []Kind{KindChapter, KindThread, KindBeat}
	for _, kind := range cases {
		t.Run(kind.String(), func(t *testing.T) {
			l, err := s.List(kind, th.ID())
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if l.Kind() != kind {
				t.Fatalf("Kind = %v, want %v", l.Kind(), kind)
			}
			start := l.Len()
			if err := l.Insert(start, "one"); err != nil {
				t.Fatalf("Insert: %v", err)
			}
			if err := l.Insert(start, "two"); err != nil {
				t.Fatalf("Insert: %v", err)
			}
			if err := l.Reorder(start, start+1); err != nil {
				t.Fatalf("Reorder: %v", err)
			}
			if name, _ := l.Name(start + 1); name != "two" {
				t.Fatalf("Name(%d) = %q, want two", start+1, name)
			}
			if err := l.Rename(start+1, "renamed"); err != nil {
				t.Fatalf("Rename: %v", err)
			}
			if name, _ := l.Name(start + 1); name != "renamed" {
				t.Fatalf("Name after rename = %q", name)
			}
			if err := l.Delete(start); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if l.Len() != start+1 {
				t.Fatalf("Len = %d, want %d", l.Len(), start+1)
			}
			if _, err := l.Name(l.Len()); !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("Name(out of range) err = %v", err)
			}
			if err := s.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
	if _, err := s.List(KindBeat, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("List(beat, missing) err = %v, want ErrNotFound", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := Sample()
	c := s.Clone()
	if err := c.Validate(); err != nil {
		t.Fatalf("clone Validate: %v", err)
	}
	orig, _ := s.Thread(0)
	copied, _ := c.Thread(0)
	if orig == copied {
		t.Fatalf("clone shares thread pointer")
	}
	if orig.ID() != copied.ID() {
		t.Fatalf("clone changed thread id")
	}

	if err := c.DeleteChapter(0); err != nil {
		t.Fatalf("DeleteChapter on clone: %v", err)
	}
	if err := c.DeleteBeat(copied.ID(), 0); err != nil {
		t.Fatalf("DeleteBeat on clone: %v", err)
	}
	if s.ChapterCount() != 4 {
		t.Fatalf("original chapters = %d, want 4", s.ChapterCount())
	}
	if orig.BeatCount() != 3 {
		t.Fatalf("original beats = %d, want 3", orig.BeatCount())
	}
	first, _ := s.Chapter(0)
	if got := len(s.BeatsOf(first.ID())); got != 2 {
		t.Fatalf("original first chapter beats = %d, want 2", got)
	}
	checkSymmetry(t, s)
	checkSymmetry(t, c)
}

func TestBuilderRejectsBrokenInput(t *testing.T) {
	cases := []struct {
		name  string
		build func() (*Story, error)
	}{
		{"duplicate id", func() (*Story, error) {
			return NewBuilder("s").Chapter("x", "a").Chapter("x", "b").Build()
		}},
		{"unknown thread", func() (*Story, error) {
			return NewBuilder("s").Beat("nope", "", "b", "").Build()
		}},
		{"unknown chapter", func() (*Story, error) {
			return NewBuilder("s").Thread("t", "t", "").Beat("t", "", "b", "missing").Build()
		}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.build()
			if !errors.Is(err, ErrInvariant) {
				t.Fatalf("err = %v, want ErrInvariant", err)
			}
			if s != nil {
				t.Fatalf("story returned alongside error")
			}
		})
	}
}

func TestSymmetryUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := New("story")
	th := mustAddThread(t, s, 0, "t")
	for step := 0; step < 500; step++ {
		switch rng.Intn(6) {
		case 0:
			_, _ = s.AddChapter(rng.Intn(s.ChapterCount()+1), "c")
		case 1:
			_, _ = s.AddBeat(th.ID(), rng.Intn(th.BeatCount()+1), "b")
		case 2:
			if s.ChapterCount() > 0 {
				_ = s.DeleteChapter(rng.Intn(s.ChapterCount()))
			}
		case 3:
			if th.BeatCount() > 0 {
				_ = s.DeleteBeat(th.ID(), rng.Intn(th.BeatCount()))
			}
		default:
			if s.ChapterCount() > 0 && th.BeatCount() > 0 {
				c, _ := s.Chapter(rng.Intn(s.ChapterCount()))
				b := th.Beats()[rng.Intn(th.BeatCount())]
				_ = s.AssignBeat(b.ID(), c.ID())
			}
		}
		checkSymmetry(t, s)
	}
}

func TestSampleIsValid(t *testing.T) {
	s := Sample()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if s.ThreadCount() != 2 || s.ChapterCount() != 4 {
		t.Fatalf("sample has %d threads, %d chapters", s.ThreadCount(), s.ChapterCount())
	}
}
