package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kobzarvs/plotline/internal/config"
)

// DefaultMaxSize is the size past which the previous log is rotated away.
const DefaultMaxSize = 1 << 20

// Options choose where a run logs.
type Options struct {
	// Path of the log file. Empty means $PLOTLINE_LOG_FILE, or plotline.log
	// in the config directory.
	Path  string
	Debug bool
	// MaxSize in bytes; an older log larger than this is moved to Path.1
	// before the run starts. Zero disables rotation.
	MaxSize int64
}

var (
	log     *zap.SugaredLogger
	logFile *os.File
	logPath string
)

// Init opens the log file in append mode. Every entry of this run carries
// the same run id, so runs sharing a file can be told apart.
func Init(opts Options) error {
	path, err := resolvePath(opts.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := rotate(path, opts.MaxSize); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}
	enc := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(f), level)
	// helpers below add one frame
	l := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("run", ulid.Make().String())),
	)

	Close()
	log, logFile, logPath = l.Sugar(), f, path
	log.Infow("log opened", "path", path, "debug", opts.Debug)
	return nil
}

// Path is the file the current run logs to, or "" before Init.
func Path() string { return logPath }

// Close flushes and closes the log. Logging after Close is a no-op.
func Close() {
	if log != nil {
		_ = log.Sync()
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	log, logFile, logPath = nil, nil, ""
}

func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if v := os.Getenv("PLOTLINE_LOG_FILE"); v != "" {
		return v, nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plotline.log"), nil
}

// rotate keeps one generation of history next to path.
func rotate(path string, maxSize int64) error {
	if maxSize <= 0 {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxSize {
		return nil
	}
	if err := os.Rename(path, path+".1"); err != nil {
		return fmt.Errorf("rotate log: %w", err)
	}
	return nil
}

func Debug(msg string, keysAndValues ...any) {
	if log != nil {
		log.Debugw(msg, keysAndValues...)
	}
}

func Info(msg string, keysAndValues ...any) {
	if log != nil {
		log.Infow(msg, keysAndValues...)
	}
}

func Warn(msg string, keysAndValues ...any) {
	if log != nil {
		log.Warnw(msg, keysAndValues...)
	}
}

func Error(msg string, keysAndValues ...any) {
	if log != nil {
		log.Errorw(msg, keysAndValues...)
	}
}
