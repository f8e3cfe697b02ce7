package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/plotline/internal/config"
	"github.com/kobzarvs/plotline/internal/logger"
	"github.com/kobzarvs/plotline/internal/nav"
	"github.com/kobzarvs/plotline/internal/session"
	"github.com/kobzarvs/plotline/internal/store"
	"github.com/kobzarvs/plotline/internal/story"
)

// scriptedScreen queues key presses as soon as the screen is initialized.
type scriptedScreen struct {
	tcell.SimulationScreen
	keys []*tcell.EventKey
}

func (s *scriptedScreen) Init() error {
	if err := s.SimulationScreen.Init(); err != nil {
		return err
	}
	s.SetSize(80, 24)
	for _, k := range s.keys {
		if err := s.PostEvent(k); err != nil {
			return err
		}
	}
	return nil
}

func runes(keys string) []*tcell.EventKey {
	evs := make([]*tcell.EventKey, 0, len(keys))
	for _, r := range keys {
		evs = append(evs, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	return evs
}

func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PLOTLINE_CONFIG_HOME", dir)
	t.Setenv("PLOTLINE_LOG_FILE", filepath.Join(dir, "plotline.log"))
	return dir
}

func runScripted(t *testing.T, a *App, keys []*tcell.EventKey) error {
	t.Helper()
	screen := &scriptedScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8"), keys: keys}
	a.newScreen = func() (tcell.Screen, error) { return screen, nil }
	done := make(chan error, 1)
	go func() { done <- a.Run() }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return")
		return nil
	}
}

func TestRunRemembersLayout(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "story.json")
	if err := store.Save(story.Sample(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	sessionPath := filepath.Join(dir, "session.json")

	a := New(Options{Path: path})
	a.sessions = func() (*session.Manager, error) { return session.Open(sessionPath, 0), nil }
	// hide the thread list, switch to plain style, quit
	if err := runScripted(t, a, runes("1sq")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	sm := session.Open(sessionPath, 0)
	abs, _ := filepath.Abs(path)
	state, ok := sm.StoryState(abs)
	if !ok {
		t.Fatalf("no session state for %s", abs)
	}
	want := nav.Layout{Left: false, Chapters: true}
	if state.Layout != want || !state.Plain {
		t.Fatalf("state = %+v, want layout %+v plain", state, want)
	}
	if sm.LastStory() != abs {
		t.Fatalf("LastStory = %q, want %q", sm.LastStory(), abs)
	}
}

func TestRunNewFileUsesTitle(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "draft.json")
	a := New(Options{Path: path, Title: "Draft"})
	a.sessions = func() (*session.Manager, error) { return session.Open(filepath.Join(dir, "s.json"), 0), nil }
	keys := append(runes("w"), runes("q")...)
	if err := runScripted(t, a, keys); err != nil {
		t.Fatalf("Run: %v", err)
	}
	s, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "Draft" {
		t.Fatalf("name = %q, want Draft", s.Name)
	}
}

func TestRunBrokenFileFails(t *testing.T) {
	dir := testEnv(t)
	a := New(Options{Path: filepath.Join("testdata", "broken.json")})
	a.sessions = func() (*session.Manager, error) { return session.Open(filepath.Join(dir, "s.json"), 0), nil }
	if err := runScripted(t, a, runes("q")); err == nil {
		t.Fatalf("Run with broken story succeeded")
	}
}

func TestOpenStoryDemo(t *testing.T) {
	a := New(Options{Demo: true, Title: "Mine"})
	s, path, err := a.openStory(nil)
	if err != nil {
		t.Fatalf("openStory: %v", err)
	}
	if path != "" || s.Name != "Mine" || s.ChapterCount() != 4 {
		t.Fatalf("demo story = %q, %d chapters, path %q", s.Name, s.ChapterCount(), path)
	}
}

func TestOpenStoryLastSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "last.json")
	if err := store.Save(story.Sample(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	sm := session.Open(filepath.Join(dir, "s.json"), 0)
	sm.SetStoryState(path, session.StoryState{})
	s, got, err := New(Options{}).openStory(sm)
	if err != nil {
		t.Fatalf("openStory: %v", err)
	}
	if got != path || s.ThreadCount() != 2 {
		t.Fatalf("opened %q with %d threads", got, s.ThreadCount())
	}
}

func TestRunLogsToConfiguredFile(t *testing.T) {
	dir := testEnv(t)
	logPath := filepath.Join(dir, "run.log")
	a := New(Options{Demo: true, LogFile: logPath})
	a.sessions = func() (*session.Manager, error) { return session.Open(filepath.Join(dir, "s.json"), 0), nil }
	if err := runScripted(t, a, runes("q")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "story opened") {
		t.Fatalf("log = %q", data)
	}
}

func TestLogOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Log.File = "/tmp/from-config.log"
	got := New(Options{Debug: true}).logOptions(cfg)
	want := logger.Options{Path: "/tmp/from-config.log", Debug: true, MaxSize: 1024 * 1024}
	if got != want {
		t.Fatalf("logOptions = %+v, want %+v", got, want)
	}
	if got := New(Options{LogFile: "/tmp/flag.log"}).logOptions(cfg); got.Path != "/tmp/flag.log" || got.Debug {
		t.Fatalf("flag should override the config path: %+v", got)
	}
}

func TestDescribeGitStatus(t *testing.T) {
	tests := map[string]string{
		"":   "",
		"??": "a.json is not tracked by git",
		"A ": "a.json is staged",
		" M": "a.json has uncommitted changes",
	}
	for st, want := range tests {
		if got := describeGitStatus("a.json", st); got != want {
			t.Fatalf("describeGitStatus(%q) = %q, want %q", st, got, want)
		}
	}
}
