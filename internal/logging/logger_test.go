package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWriter(&buf, LevelWarn)
	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("below-threshold lines written:\n%s", out)
	}
	if !strings.Contains(out, "WARN  shown 3") || !strings.Contains(out, "ERROR shown 4") {
		t.Fatalf("missing lines:\n%s", out)
	}
	if strings.Contains(out, "\033[") {
		t.Fatalf("writer logger must not color output")
	}
}

func TestLogger_NilSafe(t *testing.T) {
	t.Parallel()

	var l *Logger
	l.Info("nothing %s", "happens")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug": LevelDebug, " WARN ": LevelWarn, "warning": LevelWarn,
		"error": LevelError, "info": LevelInfo, "loud": LevelInfo, "": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q)=%d want=%d", in, got, want)
		}
	}
}
