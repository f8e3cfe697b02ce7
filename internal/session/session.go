package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kobzarvs/plotline/internal/nav"
)

// StoryState stores the UI state of a single story file
type StoryState struct {
	Layout nav.Layout `json:"layout"`
	Plain  bool       `json:"plain,omitempty"` // thread colors switched off
}

// Session stores the complete session state
type Session struct {
	Stories   map[string]StoryState `json:"stories"`
	LastStory string                `json:"last_story,omitempty"`
	LastSaved time.Time             `json:"last_saved"`
}

// Manager handles session persistence
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager backed by the XDG state directory
func NewManager() (*Manager, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	return Open(path, 15*time.Second), nil
}

// Open creates a manager for the session file at path. A positive
// autosave interval starts a background save loop; Stop ends it.
func Open(path string, autosave time.Duration) *Manager {
	m := &Manager{
		session: Session{
			Stories: make(map[string]StoryState),
		},
		path:     path,
		stopChan: make(chan struct{}),
	}

	// Load existing session
	m.load()

	if autosave > 0 {
		go m.autosaveLoop(autosave)
	}
	return m
}

func sessionPath() (string, error) {
	// XDG state directory
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateDir, "plotline")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return // No existing session, start fresh
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return
	}
	if session.Stories == nil {
		session.Stories = make(map[string]StoryState)
	}
	m.session = session
}

// Save persists the session to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}

	m.dirty = false
	return nil
}

// ForceSave saves even if not dirty
func (m *Manager) ForceSave() error {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	return m.Save()
}

// StoryState returns the saved state for a story file
func (m *Manager) StoryState(absPath string) (StoryState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.session.Stories[absPath]
	return state, ok
}

// SetStoryState updates the state for a story file and marks it as the
// last opened story
func (m *Manager) SetStoryState(absPath string, state StoryState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Stories[absPath] = state
	m.session.LastStory = absPath
	m.dirty = true
}

// LastStory returns the last story that had its state recorded
func (m *Manager) LastStory() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.LastStory
}

func (m *Manager) autosaveLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = m.Save()
		case <-m.stopChan:
			return
		}
	}
}

// Stop stops the autosave loop and saves final state
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	return m.ForceSave()
}
