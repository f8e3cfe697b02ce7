package story

import "fmt"

// links is the two-way index between beats and the chapter they are
// assigned to. Both maps are always updated together.
type links struct {
	chapterOfBeat  map[ID]ID
	beatsOfChapter map[ID]map[ID]struct{}
}

func newLinks() links {
	return links{
		chapterOfBeat:  make(map[ID]ID),
		beatsOfChapter: make(map[ID]map[ID]struct{}),
	}
}

func (l *links) assign(beat, chapter ID) {
	l.detach(beat)
	set, ok := l.beatsOfChapter[chapter]
	if !ok {
		set = make(map[ID]struct{})
		l.beatsOfChapter[chapter] = set
	}
	set[beat] = struct{}{}
	l.chapterOfBeat[beat] = chapter
}

func (l *links) detach(beat ID) {
	chapter, ok := l.chapterOfBeat[beat]
	if !ok {
		return
	}
	delete(l.chapterOfBeat, beat)
	if set, ok := l.beatsOfChapter[chapter]; ok {
		delete(set, beat)
		if len(set) == 0 {
			delete(l.beatsOfChapter, chapter)
		}
	}
}

func (l *links) clearChapter(chapter ID) {
	for beat := range l.beatsOfChapter[chapter] {
		delete(l.chapterOfBeat, beat)
	}
	delete(l.beatsOfChapter, chapter)
}

func (l *links) check(s *Story) error {
	for beat, chapter := range l.chapterOfBeat {
		if _, ok := s.beats[beat]; !ok {
			return fmt.Errorf("%w: link from unknown beat %s", ErrInvariant, beat)
		}
		if _, ok := s.ChapterByID(chapter); !ok {
			return fmt.Errorf("%w: beat %s linked to unknown chapter %s", ErrInvariant, beat, chapter)
		}
		if _, ok := l.beatsOfChapter[chapter][beat]; !ok {
			return fmt.Errorf("%w: chapter %s does not list beat %s", ErrInvariant, chapter, beat)
		}
	}
	for chapter, set := range l.beatsOfChapter {
		for beat := range set {
			if l.chapterOfBeat[beat] != chapter {
				return fmt.Errorf("%w: chapter %s lists beat %s assigned elsewhere", ErrInvariant, chapter, beat)
			}
		}
	}
	return nil
}
