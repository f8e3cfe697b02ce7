package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Keymap struct {
	Normal map[string]string `toml:"normal"`
}

type EditorOptions struct {
	HistorySize     int    `toml:"history-size"`
	GitBranchSymbol string `toml:"git-branch-symbol"`
	TickMS          int    `toml:"tick-ms"`
	TopMargin       int    `toml:"top-margin"`
}

type LogOptions struct {
	File      string `toml:"file"`
	Debug     bool   `toml:"debug"`
	MaxSizeKB int    `toml:"max-size-kb"`
}

type Theme struct {
	Theme                 string   `toml:"theme"`
	Foreground            string   `toml:"foreground"`
	Background            string   `toml:"background"`
	StatuslineForeground  string   `toml:"statusline-foreground"`
	StatuslineBackground  string   `toml:"statusline-background"`
	CommandlineForeground string   `toml:"commandline-foreground"`
	CommandlineBackground string   `toml:"commandline-background"`
	HeaderForeground      string   `toml:"header-foreground"`
	MarkedForeground      string   `toml:"marked-foreground"`
	ErrorForeground       string   `toml:"error-foreground"`
	ThreadPalette         []string `toml:"thread-palette"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Log    LogOptions    `toml:"log"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			HistorySize:     100,
			GitBranchSymbol: "git:",
			TickMS:          250,
			TopMargin:       1,
		},
		Log: LogOptions{
			MaxSizeKB: 1024,
		},
		Theme: Theme{
			Theme:                 "",
			Foreground:            "#B3B1AD",
			Background:            "#0A0E14",
			StatuslineForeground:  "#B3B1AD",
			StatuslineBackground:  "#0F1419",
			CommandlineForeground: "#B3B1AD",
			CommandlineBackground: "#0F1419",
			HeaderForeground:      "#E6B450",
			MarkedForeground:      "#59C2FF",
			ErrorForeground:       "#FF3333",
			ThreadPalette: []string{
				"#FF5F5F",
				"#5FAF5F",
				"#5F87FF",
				"#FFD75F",
				"#AF5FFF",
				"#5FD7D7",
			},
		},
		Keymap: Keymap{
			Normal: map[string]string{
				"h":      "move_left",
				"j":      "move_down",
				"k":      "move_up",
				"l":      "move_right",
				"left":   "move_left",
				"down":   "move_down",
				"up":     "move_up",
				"right":  "move_right",
				"1":      "toggle_left",
				"2":      "toggle_chapters",
				"c":      "open_thread",
				"C":      "close_thread",
				"n":      "next_thread",
				"p":      "prev_thread",
				"i":      "add_before",
				"a":      "add_after",
				"I":      "add_first",
				"A":      "add_last",
				"e":      "rename",
				"d":      "delete",
				"x":      "unassign",
				"enter":  "confirm",
				"space":  "confirm",
				"esc":    "cancel",
				"u":      "undo",
				"U":      "redo",
				"ctrl+r": "redo",
				"s":      "toggle_style",
				"t":      "cycle_color",
				"ctrl+s": "save",
				"w":      "save",
				"q":      "quit",
				"ctrl+c": "quit",
			},
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.HistorySize > 0 {
		cfg.Editor.HistorySize = userCfg.Editor.HistorySize
	}
	if userCfg.Editor.GitBranchSymbol != "" {
		cfg.Editor.GitBranchSymbol = userCfg.Editor.GitBranchSymbol
	}
	if userCfg.Editor.TickMS > 0 {
		cfg.Editor.TickMS = userCfg.Editor.TickMS
	}
	if userCfg.Editor.TopMargin > 0 {
		cfg.Editor.TopMargin = userCfg.Editor.TopMargin
	}
	if userCfg.Log.File != "" {
		cfg.Log.File = userCfg.Log.File
	}
	cfg.Log.Debug = userCfg.Log.Debug
	if userCfg.Log.MaxSizeKB > 0 {
		cfg.Log.MaxSizeKB = userCfg.Log.MaxSizeKB
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap.Normal {
		cfg.Keymap.Normal[k] = v
	}

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
	set(&dst.CommandlineForeground, src.CommandlineForeground)
	set(&dst.CommandlineBackground, src.CommandlineBackground)
	set(&dst.HeaderForeground, src.HeaderForeground)
	set(&dst.MarkedForeground, src.MarkedForeground)
	set(&dst.ErrorForeground, src.ErrorForeground)
	if len(src.ThreadPalette) > 0 {
		dst.ThreadPalette = append([]string(nil), src.ThreadPalette...)
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("PLOTLINE_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "plotline"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "plotline"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
