package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the console logger and, when logDir is set, a rotating
// text log under it. Both use the same line format.
func NewLogger(level string, logDir string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	cores := []zapcore.Core{
		zapcore.NewCore(NewLineEncoder(color), zapcore.Lock(os.Stderr), lvl),
	}

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, err
		}
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(logDir, LogFileName(time.Now())),
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(NewLineEncoder(false), w, lvl))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// LogFileName names a text log after the moment the process started.
func LogFileName(t time.Time) string {
	return t.Format("20060102150405") + ".log"
}

// ParseLevel accepts level names as well as the numeric levels 10-50
// (DEBUG..CRITICAL).
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	case "critical", "fatal":
		return zap.FatalLevel, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return zap.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	switch {
	case n <= 10:
		return zap.DebugLevel, nil
	case n <= 20:
		return zap.InfoLevel, nil
	case n <= 30:
		return zap.WarnLevel, nil
	case n <= 40:
		return zap.ErrorLevel, nil
	default:
		return zap.FatalLevel, nil
	}
}
