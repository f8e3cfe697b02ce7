package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolvePath(t *testing.T) {
	t.Setenv("PLOTLINE_LOG_FILE", "/tmp/custom.log")
	if got, _ := resolvePath("/var/tmp/flag.log"); got != "/var/tmp/flag.log" {
		t.Fatalf("resolvePath = %q, want the explicit path", got)
	}
	if got, _ := resolvePath(""); got != "/tmp/custom.log" {
		t.Fatalf("resolvePath = %q, want /tmp/custom.log", got)
	}
	t.Setenv("PLOTLINE_LOG_FILE", "")
	t.Setenv("PLOTLINE_CONFIG_HOME", "/tmp/cfg")
	if got, _ := resolvePath(""); got != "/tmp/cfg/plotline.log" {
		t.Fatalf("resolvePath = %q, want /tmp/cfg/plotline.log", got)
	}
	t.Setenv("PLOTLINE_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, _ := resolvePath(""); got != "/tmp/xdg/plotline/plotline.log" {
		t.Fatalf("resolvePath = %q, want /tmp/xdg/plotline/plotline.log", got)
	}
}

func TestHelpersBeforeInitAreNoops(t *testing.T) {
	Close()
	Debug("ignored", "k", 1)
	Info("ignored")
	Warn("ignored")
	Error("ignored")
	if Path() != "" {
		t.Fatalf("Path = %q after Close", Path())
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestInitWritesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "plotline.log")
	if err := Init(Options{Path: path, Debug: true}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Path() != path {
		t.Fatalf("Path = %q, want %q", Path(), path)
	}
	Debug("story loaded", "chapters", 4)
	Close()

	data := readLog(t, path)
	if !strings.Contains(data, "story loaded") || !strings.Contains(data, "chapters") {
		t.Fatalf("log missing entry:\n%s", data)
	}
	if !strings.Contains(data, "logger_test.go") {
		t.Fatalf("caller should be the code that logged:\n%s", data)
	}
}

func TestInfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plotline.log")
	if err := Init(Options{Path: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Debug("hidden detail")
	Info("visible")
	Close()

	data := readLog(t, path)
	if strings.Contains(data, "hidden detail") || !strings.Contains(data, "visible") {
		t.Fatalf("unexpected log:\n%s", data)
	}
}

func TestRunsAppendWithDistinctIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plotline.log")
	for _, msg := range []string{"first run", "second run"} {
		if err := Init(Options{Path: path}); err != nil {
			t.Fatalf("Init: %v", err)
		}
		Info(msg)
		Close()
	}

	data := readLog(t, path)
	if !strings.Contains(data, "first run") || !strings.Contains(data, "second run") {
		t.Fatalf("earlier run was truncated:\n%s", data)
	}
	var runs []string
	for _, line := range strings.Split(data, "\n") {
		if i := strings.Index(line, `"run": "`); i >= 0 {
			id := line[i+len(`"run": "`):]
			runs = append(runs, id[:strings.IndexByte(id, '"')])
		}
	}
	if len(runs) != 4 || runs[0] != runs[1] || runs[1] == runs[2] || runs[2] != runs[3] {
		t.Fatalf("run ids = %v", runs)
	}
}

func TestInitRotatesLargeLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plotline.log")
	old := strings.Repeat("x", 64)
	if err := os.WriteFile(path, []byte(old), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Init(Options{Path: path, MaxSize: 32}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Close()

	if got := readLog(t, path+".1"); got != old {
		t.Fatalf("rotated log = %q", got)
	}
	if strings.Contains(readLog(t, path), old) {
		t.Fatalf("old content still in the current log")
	}

	// under the limit nothing moves
	if err := Init(Options{Path: path, MaxSize: 1 << 20}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Close()
	if got := readLog(t, path+".1"); got != old {
		t.Fatalf("second rotation replaced %s.1", path)
	}
}
