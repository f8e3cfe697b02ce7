package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/plotline/internal/config"
	"github.com/kobzarvs/plotline/internal/editor"
	"github.com/kobzarvs/plotline/internal/gitinfo"
	"github.com/kobzarvs/plotline/internal/logger"
	"github.com/kobzarvs/plotline/internal/session"
	"github.com/kobzarvs/plotline/internal/store"
	"github.com/kobzarvs/plotline/internal/story"
)

const gitRefreshInterval = 2 * time.Second

// Options are the command line inputs of a run.
type Options struct {
	// Path is the story file; it does not have to exist yet.
	Path string
	// Title names a story that is created rather than loaded.
	Title string
	// Demo opens the built in sample story.
	Demo  bool
	Debug bool
	// LogFile overrides the log file from the config.
	LogFile string
}

// App is the top-level runtime for plotline.
type App struct {
	opts      Options
	newScreen func() (tcell.Screen, error)
	sessions  func() (*session.Manager, error)
}

func New(opts Options) *App {
	return &App{
		opts:      opts,
		newScreen: tcell.NewScreen,
		sessions:  session.NewManager,
	}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(a.logOptions(cfg)); err == nil {
		defer logger.Close()
	}

	sm, err := a.sessions()
	if err != nil {
		logger.Warn("session disabled", "error", err)
	}
	if sm != nil {
		defer func() {
			if err := sm.Stop(); err != nil {
				logger.Warn("session save failed", "error", err)
			}
		}()
	}

	s, path, err := a.openStory(sm)
	if err != nil {
		return err
	}
	logger.Info("story opened", "path", path, "chapters", s.ChapterCount(), "threads", s.ThreadCount())

	ed := editor.New(cfg)
	ed.SetStory(s, path)
	key := sessionKey(path)
	if sm != nil && key != "" {
		if state, ok := sm.StoryState(key); ok {
			ed.RestoreLayout(state.Layout)
			ed.SetPlain(state.Plain)
		}
	}
	if path != "" {
		if st, err := gitinfo.FileStatus(path); err == nil {
			if msg := describeGitStatus(filepath.Base(path), st); msg != "" {
				ed.SetStatusMessage(msg)
			}
		}
	}

	screen, err := a.newScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	stopTicks := make(chan struct{})
	defer close(stopTicks)
	tick := time.Duration(max(cfg.Editor.TickMS, 1)) * time.Millisecond
	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-stopTicks:
				return
			case <-ticker.C:
				_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	gitPath := gitDir(path)
	ed.SetGitBranch(gitinfo.Branch(gitPath))
	lastGitCheck := time.Now()

	defer func() {
		if sm == nil {
			return
		}
		if key := sessionKey(ed.Path()); key != "" {
			sm.SetStoryState(key, session.StoryState{Layout: ed.Layout(), Plain: ed.Plain()})
		}
	}()

	if err := ed.Render(screen); err != nil {
		return err
	}
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				if err := ed.Err(); err != nil {
					return err
				}
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			if time.Since(lastGitCheck) > gitRefreshInterval {
				lastGitCheck = time.Now()
				gitPath = gitDir(ed.Path())
				ed.SetGitBranch(gitinfo.Branch(gitPath))
			}
		}
		if err := ed.Render(screen); err != nil {
			return err
		}
	}
}

// openStory picks the story to edit: the demo, the file named on the
// command line (new when it does not exist), or the last story of the
// previous session.
func (a *App) openStory(sm *session.Manager) (*story.Story, string, error) {
	path := a.opts.Path
	if a.opts.Demo {
		s := story.Sample()
		if a.opts.Title != "" {
			s.Name = a.opts.Title
		}
		return s, path, nil
	}
	if path == "" && sm != nil {
		if last := sm.LastStory(); last != "" {
			if _, err := os.Stat(last); err == nil {
				path = last
			}
		}
	}
	if path == "" {
		return story.New(a.opts.Title), "", nil
	}
	s, err := store.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		name := a.opts.Title
		if name == "" {
			name = trimExt(filepath.Base(path))
		}
		return story.New(name), path, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	return s, path, nil
}

// logOptions merges the command line over the [log] config section.
func (a *App) logOptions(cfg config.Config) logger.Options {
	opts := logger.Options{
		Path:    cfg.Log.File,
		Debug:   a.opts.Debug || cfg.Log.Debug,
		MaxSize: int64(cfg.Log.MaxSizeKB) * 1024,
	}
	if a.opts.LogFile != "" {
		opts.Path = a.opts.LogFile
	}
	return opts
}

func sessionKey(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return abs
}

func gitDir(path string) string {
	if path != "" {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

func describeGitStatus(name, st string) string {
	switch {
	case st == "":
		return ""
	case st == "??":
		return name + " is not tracked by git"
	case st[0] == 'A' || st[1] == 'A':
		return name + " is staged"
	default:
		return name + " has uncommitted changes"
	}
}
