package editor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kobzarvs/plotline/internal/logger"
	"github.com/kobzarvs/plotline/internal/nav"
	"github.com/kobzarvs/plotline/internal/store"
	"github.com/kobzarvs/plotline/internal/story"
)

var errNoCursor = errors.New("no element selected")

// selected returns the list under the cursor and the cursor index. With
// needItem the list must not be empty.
func (e *Editor) selected(needItem bool) (story.List, int, error) {
	col := e.nav.Column()
	if col == nav.ColumnNone {
		return nil, 0, errNoCursor
	}
	list, err := e.lists().List(col)
	if err != nil {
		return nil, 0, err
	}
	if needItem && list.Len() == 0 {
		return nil, 0, fmt.Errorf("no %s to edit", list.Kind())
	}
	return list, e.nav.Index(), nil
}

func (e *Editor) add(action string) {
	if _, picking := e.nav.Pick(); picking {
		e.SetStatusMessage("finish or cancel the move first")
		return
	}
	list, at, err := e.selected(false)
	if err != nil {
		e.setError(err)
		return
	}
	index := 0
	if list.Len() > 0 {
		switch action {
		case actionAddBefore:
			index = at
		case actionAddAfter:
			index = at + 1
		case actionAddFirst:
			index = 0
		case actionAddLast:
			index = list.Len()
		}
	}
	kind := list.Kind()
	col := e.nav.Column()
	e.startPrompt(fmt.Sprintf("New %s: ", kind), "", func(name string) {
		if name == "" {
			e.SetStatusMessage("cancelled")
			return
		}
		var err error
		if kind == story.KindThread {
			_, err = e.story.AddThread(index, name, e.nextColor())
		} else {
			var list story.List
			if list, err = e.lists().List(col); err == nil {
				err = list.Insert(index, name)
			}
		}
		if err != nil {
			e.setError(err)
			return
		}
		e.nav.Reset(false)
		e.commit(fmt.Sprintf("added %s %q", kind, name))
	})
}

func (e *Editor) rename() {
	list, at, err := e.selected(true)
	if err != nil {
		e.setError(err)
		return
	}
	current, err := list.Name(at)
	if err != nil {
		e.setError(err)
		return
	}
	kind, col := list.Kind(), e.nav.Column()
	e.startPrompt(fmt.Sprintf("Rename %s: ", kind), current, func(name string) {
		if name == "" || name == current {
			e.SetStatusMessage("name unchanged")
			return
		}
		list, err := e.lists().List(col)
		if err == nil {
			err = list.Rename(at, name)
		}
		if err != nil {
			e.setError(err)
			return
		}
		e.commit(fmt.Sprintf("renamed %s to %q", kind, name))
	})
}

func (e *Editor) delete() {
	list, at, err := e.selected(true)
	if err != nil {
		e.setError(err)
		return
	}
	name, err := list.Name(at)
	if err != nil {
		e.setError(err)
		return
	}
	kind, col := list.Kind(), e.nav.Column()
	e.ask(fmt.Sprintf("Delete %s %q? (y/n)", kind, name), func(yes bool) {
		e.nav.Reset(false)
		if !yes {
			e.SetStatusMessage("")
			return
		}
		list, err := e.lists().List(col)
		if err == nil {
			err = list.Delete(at)
		}
		if errors.Is(err, story.ErrThreadHasBeats) {
			e.SetStatusMessage(fmt.Sprintf("%q still has beats; delete them first", name))
			return
		}
		if err != nil {
			e.setError(err)
			return
		}
		e.commit(fmt.Sprintf("deleted %s %q", kind, name))
	})
}

func (e *Editor) confirm() {
	outcome, err := e.nav.Confirm(e.lists())
	if err != nil {
		e.setError(err)
		return
	}
	switch outcome {
	case nav.OutcomePicked:
		pick, _ := e.nav.Pick()
		name := ""
		if list, err := e.lists().List(pick.Column); err == nil {
			name, _ = list.Name(pick.Index)
		}
		e.SetStatusMessage(fmt.Sprintf("moving %q: confirm again to drop", name))
	case nav.OutcomeReordered:
		e.commit("moved")
	case nav.OutcomeLinked:
		e.commit("assigned beat to chapter")
	default:
		e.SetStatusMessage("")
	}
}

func (e *Editor) openThread() {
	if e.nav.Column() != nav.ColumnThreads {
		e.SetStatusMessage("select a thread in the thread list first")
		return
	}
	t, err := e.story.Thread(e.nav.Index())
	if err != nil {
		e.setError(err)
		return
	}
	e.nav.OpenThread(t.ID())
}

// switchThread opens the thread step positions away from the open one,
// wrapping around. With no thread open it starts before the first one.
func (e *Editor) switchThread(step int) {
	n := e.story.ThreadCount()
	if n == 0 {
		e.SetStatusMessage("story has no threads")
		return
	}
	i := -1
	if open := e.nav.Layout().Thread; open != "" {
		if t, ok := e.story.ThreadByID(open); ok {
			i = t.Position()
		}
	}
	switch {
	case i < 0 && step < 0:
		i = n - 1
	case i < 0:
		i = 0
	default:
		i = ((i+step)%n + n) % n
	}
	t, err := e.story.Thread(i)
	if err != nil {
		e.setError(err)
		return
	}
	e.nav.OpenThread(t.ID())
}

// targetThread is the thread a color change applies to: the one under the
// cursor in the thread list, or the open one.
func (e *Editor) targetThread() (*story.Thread, bool) {
	switch e.nav.Column() {
	case nav.ColumnThreads:
		t, err := e.story.Thread(e.nav.Index())
		return t, err == nil
	case nav.ColumnBeats:
		return e.story.ThreadByID(e.nav.Layout().Thread)
	}
	return nil, false
}

func (e *Editor) cycleColor() {
	t, ok := e.targetThread()
	if !ok {
		e.SetStatusMessage("select a thread first")
		return
	}
	if len(e.palette) == 0 {
		e.SetStatusMessage("thread palette is empty")
		return
	}
	next := e.palette[0]
	for i, c := range e.palette {
		if strings.EqualFold(c, t.Color()) {
			next = e.palette[(i+1)%len(e.palette)]
			break
		}
	}
	if err := e.story.SetThreadColor(t.ID(), next); err != nil {
		e.setError(err)
		return
	}
	e.commit(fmt.Sprintf("%q is now %s", t.Name(), next))
}

// nextColor picks the palette color used by the fewest threads, earliest
// first.
func (e *Editor) nextColor() string {
	if len(e.palette) == 0 {
		return ""
	}
	used := make(map[string]int, len(e.palette))
	for _, t := range e.story.Threads() {
		used[strings.ToUpper(t.Color())]++
	}
	best := e.palette[0]
	for _, c := range e.palette[1:] {
		if used[strings.ToUpper(c)] < used[strings.ToUpper(best)] {
			best = c
		}
	}
	return best
}

func (e *Editor) unassign() {
	if e.nav.Column() != nav.ColumnBeats {
		e.SetStatusMessage("select a beat first")
		return
	}
	list, at, err := e.selected(true)
	if err != nil {
		e.setError(err)
		return
	}
	id, err := list.ID(at)
	if err != nil {
		e.setError(err)
		return
	}
	if _, ok := e.story.ChapterOf(id); !ok {
		e.SetStatusMessage("beat is not in a chapter")
		return
	}
	if err := e.story.UnassignBeat(id); err != nil {
		e.setError(err)
		return
	}
	e.commit("removed beat from its chapter")
}

func (e *Editor) save() {
	if e.path != "" {
		e.saveTo(e.path)
		return
	}
	e.startPrompt("Save as: ", "", func(path string) {
		if path == "" {
			e.SetStatusMessage("not saved")
			return
		}
		e.saveTo(path)
	})
}

func (e *Editor) saveTo(path string) {
	if err := store.Save(e.story, path); err != nil {
		e.setError(err)
		logger.Error("save failed", "path", path, "error", err)
		return
	}
	e.path = path
	e.dirty = false
	logger.Info("story saved", "path", path)
	e.SetStatusMessage(fmt.Sprintf("saved %s", filepath.Base(path)))
}

func (e *Editor) quit() {
	if !e.dirty {
		e.quitRequested = true
		return
	}
	e.ask("Unsaved changes. Quit anyway? (y/n)", func(yes bool) {
		if yes {
			e.quitRequested = true
			return
		}
		e.SetStatusMessage("")
	})
}
