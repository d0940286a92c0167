package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a small leveled logger shared by every component.
type Logger struct {
	min   Level
	out   *log.Logger
	err   *log.Logger
	color bool
}

// New creates a Logger writing info and below to stdout, errors to stderr.
func New(level Level) *Logger {
	return &Logger{
		min:   level,
		out:   log.New(os.Stdout, "", 0),
		err:   log.New(os.Stderr, "", 0),
		color: true,
	}
}

// NewWriter creates an uncolored Logger writing every level to w.
func NewWriter(w io.Writer, level Level) *Logger {
	l := log.New(w, "", 0)
	return &Logger{min: level, out: l, err: l}
}

// Discard returns a Logger that drops everything. Handy in tests.
func Discard() *Logger {
	return NewWriter(io.Discard, LevelError+1)
}

func (l *Logger) Debug(format string, args ...any) { l.write(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.write(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.write(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.write(LevelError, format, args...) }

var tags = map[Level]struct {
	name  string
	color string
}{
	LevelDebug: {"DEBUG", "36"},
	LevelInfo:  {"INFO ", "32"},
	LevelWarn:  {"WARN ", "33"},
	LevelError: {"ERROR", "31"},
}

func (l *Logger) write(level Level, format string, args ...any) {
	if l == nil || level < l.min {
		return
	}
	tag := tags[level]
	name := tag.name
	if l.color {
		name = "\033[" + tag.color + "m" + name + "\033[0m"
	}
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] %s %s", time.Now().Format("2006-01-02 15:04:05"), name, msg)
	if level == LevelError {
		l.err.Println(line)
		return
	}
	l.out.Println(line)
}
