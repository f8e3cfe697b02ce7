package editor

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/plotline/internal/config"
	"github.com/kobzarvs/plotline/internal/history"
	"github.com/kobzarvs/plotline/internal/logger"
	"github.com/kobzarvs/plotline/internal/nav"
	"github.com/kobzarvs/plotline/internal/story"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeConfirm
)

func (m Mode) String() string {
	switch m {
	case ModePrompt:
		return "PROMPT"
	case ModeConfirm:
		return "CONFIRM"
	}
	return "NORMAL"
}

const (
	actionMoveUp         = "move_up"
	actionMoveDown       = "move_down"
	actionMoveLeft       = "move_left"
	actionMoveRight      = "move_right"
	actionAddBefore      = "add_before"
	actionAddAfter       = "add_after"
	actionAddFirst       = "add_first"
	actionAddLast        = "add_last"
	actionRename         = "rename"
	actionDelete         = "delete"
	actionConfirm        = "confirm"
	actionCancel         = "cancel"
	actionToggleLeft     = "toggle_left"
	actionToggleChapters = "toggle_chapters"
	actionOpenThread     = "open_thread"
	actionCloseThread    = "close_thread"
	actionNextThread     = "next_thread"
	actionPrevThread     = "prev_thread"
	actionUndo           = "undo"
	actionRedo           = "redo"
	actionToggleStyle    = "toggle_style"
	actionCycleColor     = "cycle_color"
	actionUnassign       = "unassign"
	actionSave           = "save"
	actionQuit           = "quit"
)

// snapshot is one undo step: the story together with the navigation state
// that was current when it was taken.
type snapshot struct {
	story *story.Story
	nav   nav.Navigator
}

func cloneSnapshot(s snapshot) snapshot {
	return snapshot{story: s.story.Clone(), nav: s.nav}
}

type Editor struct {
	mode    Mode
	story   *story.Story
	nav     nav.Navigator
	history *history.Stack[snapshot]
	path    string
	dirty   bool
	plain   bool

	historySize int
	topMargin   int
	keymap      map[string]string
	palette     []string

	// prompt line state (ModePrompt)
	promptLabel  string
	prompt       []rune
	promptCursor int
	onSubmit     func(string)

	// y/n question state (ModeConfirm)
	question  string
	onConfirm func(bool)

	statusMessage string
	statusIsError bool

	gitBranch       string
	gitBranchSymbol string

	// first visible body row per column, fed back into the renderer
	tops map[nav.Column]int
	// colors caches parsed thread color tags
	colors map[string]tcell.Color

	quitRequested bool
	err           error

	styleMain      tcell.Style
	styleHeader    tcell.Style
	styleStatus    tcell.Style
	styleCommand   tcell.Style
	colorError     tcell.Color
	colorMarked    tcell.Color
	colorHighlight tcell.Color

	actionHook func(string)
}

func New(cfg config.Config) *Editor {
	fg := parseColor(cfg.Theme.Foreground, tcell.ColorReset)
	bg := parseColor(cfg.Theme.Background, tcell.ColorReset)
	statusFg := parseColor(cfg.Theme.StatuslineForeground, fg)
	statusBg := parseColor(cfg.Theme.StatuslineBackground, bg)
	cmdFg := parseColor(cfg.Theme.CommandlineForeground, fg)
	cmdBg := parseColor(cfg.Theme.CommandlineBackground, bg)

	keymap := make(map[string]string, len(cfg.Keymap.Normal))
	for k, v := range cfg.Keymap.Normal {
		keymap[k] = v
	}

	e := &Editor{
		historySize:     cfg.Editor.HistorySize,
		topMargin:       max(cfg.Editor.TopMargin, 0),
		keymap:          keymap,
		palette:         append([]string(nil), cfg.Theme.ThreadPalette...),
		gitBranchSymbol: cfg.Editor.GitBranchSymbol,
		tops:            make(map[nav.Column]int),
		colors:          make(map[string]tcell.Color),
		styleMain:       tcell.StyleDefault.Foreground(fg).Background(bg),
		styleHeader:     tcell.StyleDefault.Foreground(parseColor(cfg.Theme.HeaderForeground, fg)).Background(bg).Bold(true),
		styleStatus:     tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		styleCommand:    tcell.StyleDefault.Foreground(cmdFg).Background(cmdBg),
		colorError:      parseColor(cfg.Theme.ErrorForeground, tcell.ColorRed),
		colorMarked:     parseColor(cfg.Theme.MarkedForeground, tcell.ColorAqua),
		colorHighlight:  fg,
	}
	e.SetStory(story.New(""), "")
	return e
}

// SetStory replaces the edited story. History starts over with s as its
// only entry.
func (e *Editor) SetStory(s *story.Story, path string) {
	e.story = s
	e.path = path
	e.dirty = false
	e.mode = ModeNormal
	e.nav = nav.New(nav.Layout{Left: true, Chapters: true})
	e.tops = make(map[nav.Column]int)
	e.resetHistory()
}

// RestoreLayout applies a remembered pane layout. An open thread that is no
// longer part of the story is dropped.
func (e *Editor) RestoreLayout(l nav.Layout) {
	if l.Thread != "" {
		if _, ok := e.story.ThreadByID(l.Thread); !ok {
			l.Thread = ""
		}
	}
	e.nav.SetLayout(l)
	e.resetHistory()
}

func (e *Editor) resetHistory() {
	e.history = history.New(snapshot{story: e.story, nav: e.nav}, e.historySize, cloneSnapshot)
}

func (e *Editor) Story() *story.Story   { return e.story }
func (e *Editor) Path() string          { return e.path }
func (e *Editor) Dirty() bool           { return e.dirty }
func (e *Editor) Mode() Mode            { return e.mode }
func (e *Editor) Layout() nav.Layout    { return e.nav.Layout() }
func (e *Editor) Plain() bool           { return e.plain }
func (e *Editor) SetPlain(plain bool)   { e.plain = plain }
func (e *Editor) SetGitBranch(b string) { e.gitBranch = b }

// Err returns the invariant violation that stopped the editor, if any.
func (e *Editor) Err() error { return e.err }

func (e *Editor) SetStatusMessage(msg string) {
	e.statusMessage = msg
	e.statusIsError = false
}

func (e *Editor) setError(err error) {
	e.statusMessage = err.Error()
	e.statusIsError = true
	logger.Debug("action failed", "error", err)
}

// HandleKey processes one key event and reports whether the editor wants
// to quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.err != nil {
		return true
	}
	switch e.mode {
	case ModePrompt:
		e.handlePrompt(ev)
	case ModeConfirm:
		e.handleConfirm(ev)
	default:
		e.handleNormal(ev)
	}
	return e.quitRequested || e.err != nil
}

func (e *Editor) handleNormal(ev *tcell.EventKey) {
	key := keyString(ev)
	if key == "" {
		return
	}
	action, ok := e.keymap[key]
	if !ok {
		return
	}
	e.runAction(action)
}

func (e *Editor) runAction(action string) {
	if e.actionHook != nil {
		e.actionHook(action)
	}
	logger.Debug("action", "name", action)
	e.execAction(action)
}

func (e *Editor) execAction(action string) {
	switch action {
	case actionMoveUp:
		e.nav.Up(e.lists())
	case actionMoveDown:
		e.nav.Down(e.lists())
	case actionMoveLeft:
		e.nav.Left()
	case actionMoveRight:
		e.nav.Right()
	case actionAddBefore, actionAddAfter, actionAddFirst, actionAddLast:
		e.add(action)
	case actionRename:
		e.rename()
	case actionDelete:
		e.delete()
	case actionConfirm:
		e.confirm()
	case actionCancel:
		e.nav.Cancel()
		e.SetStatusMessage("")
	case actionToggleLeft:
		e.nav.ToggleLeft()
	case actionToggleChapters:
		e.nav.ToggleChapters()
	case actionOpenThread:
		e.openThread()
	case actionCloseThread:
		if e.nav.Layout().Thread != "" {
			e.nav.CloseThread()
		}
	case actionNextThread:
		e.switchThread(1)
	case actionPrevThread:
		e.switchThread(-1)
	case actionUndo:
		e.Undo()
	case actionRedo:
		e.Redo()
	case actionToggleStyle:
		e.plain = !e.plain
	case actionCycleColor:
		e.cycleColor()
	case actionUnassign:
		e.unassign()
	case actionSave:
		e.save()
	case actionQuit:
		e.quit()
	default:
		e.setError(fmt.Errorf("unknown action %q", action))
	}
}

func (e *Editor) lists() nav.StoryLists {
	return nav.StoryLists{Story: e.story, Thread: e.nav.Layout().Thread}
}

// commit records a successful mutation.
func (e *Editor) commit(msg string) {
	if err := e.story.Validate(); err != nil {
		e.err = err
		logger.Error("story invariant broken", "error", err)
		return
	}
	e.history.Push(snapshot{story: e.story, nav: e.nav})
	e.dirty = true
	e.SetStatusMessage(msg)
}

func (e *Editor) Undo() {
	if !e.history.CanUndo() {
		e.SetStatusMessage("already at oldest change")
		return
	}
	e.restore(e.history.Undo())
	e.SetStatusMessage("undo")
}

func (e *Editor) Redo() {
	if !e.history.CanRedo() {
		e.SetStatusMessage("already at newest change")
		return
	}
	e.restore(e.history.Redo())
	e.SetStatusMessage("redo")
}

func (e *Editor) restore(s snapshot) {
	e.story = s.story
	e.nav = s.nav
	e.nav.Reset(false)
	e.dirty = true
}

func (e *Editor) startPrompt(label, initial string, onSubmit func(string)) {
	e.mode = ModePrompt
	e.promptLabel = label
	e.prompt = []rune(initial)
	e.promptCursor = len(e.prompt)
	e.onSubmit = onSubmit
}

func (e *Editor) ask(question string, onConfirm func(bool)) {
	e.mode = ModeConfirm
	e.question = question
	e.onConfirm = onConfirm
}

func (e *Editor) handlePrompt(ev *tcell.EventKey) {
	switch ctrlKey(ev) {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		e.endPrompt()
		e.SetStatusMessage("cancelled")
	case tcell.KeyEnter:
		text := strings.TrimSpace(string(e.prompt))
		submit := e.onSubmit
		e.endPrompt()
		if submit != nil {
			submit(text)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.promptCursor > 0 {
			e.prompt = append(e.prompt[:e.promptCursor-1], e.prompt[e.promptCursor:]...)
			e.promptCursor--
		}
	case tcell.KeyDelete:
		if e.promptCursor < len(e.prompt) {
			e.prompt = append(e.prompt[:e.promptCursor], e.prompt[e.promptCursor+1:]...)
		}
	case tcell.KeyLeft, tcell.KeyCtrlB:
		if e.promptCursor > 0 {
			e.promptCursor--
		}
	case tcell.KeyRight, tcell.KeyCtrlF:
		if e.promptCursor < len(e.prompt) {
			e.promptCursor++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		e.promptCursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		e.promptCursor = len(e.prompt)
	case tcell.KeyCtrlU:
		e.prompt = e.prompt[:0]
		e.promptCursor = 0
	case tcell.KeyCtrlK:
		e.prompt = e.prompt[:e.promptCursor]
	case tcell.KeyCtrlW:
		if e.promptCursor > 0 {
			i := e.promptCursor - 1
			for i > 0 && e.prompt[i-1] == ' ' {
				i--
			}
			for i > 0 && e.prompt[i-1] != ' ' {
				i--
			}
			e.prompt = append(e.prompt[:i], e.prompt[e.promptCursor:]...)
			e.promptCursor = i
		}
	case tcell.KeyRune:
		e.prompt = append(e.prompt[:e.promptCursor], append([]rune{ev.Rune()}, e.prompt[e.promptCursor:]...)...)
		e.promptCursor++
	}
}

func (e *Editor) endPrompt() {
	e.mode = ModeNormal
	e.promptLabel = ""
	e.prompt = e.prompt[:0]
	e.promptCursor = 0
	e.onSubmit = nil
}

// handleConfirm takes y or n; Esc counts as no and any other key asks again.
func (e *Editor) handleConfirm(ev *tcell.EventKey) {
	var yes bool
	switch {
	case ev.Key() == tcell.KeyEscape:
		yes = false
	case ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y'):
		yes = true
	case ev.Key() == tcell.KeyRune && (ev.Rune() == 'n' || ev.Rune() == 'N'):
		yes = false
	default:
		e.SetStatusMessage("please answer y or n")
		return
	}
	done := e.onConfirm
	e.mode = ModeNormal
	e.question = ""
	e.onConfirm = nil
	if done != nil {
		done(yes)
	}
}
