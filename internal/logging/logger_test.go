package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	zlog "github.com/rs/zerolog/log"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.level.String() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.level.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%s) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&Config{Level: LevelInfo})
	logger.output = &buf

	logger.Debug("hidden")
	logger.WithComponent("preview").WithField("gen", 3).Info("compiled %s", "lesson.mdx")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("debug message should be filtered, got: %s", output)
	}
	for _, want := range []string{"INFO", "[preview]", "compiled lesson.mdx", "{gen=3}"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestFileOutputStripsColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "session.log")

	logger := New(&Config{Level: LevelDebug, Colored: true, FilePath: path})
	logger.output = &bytes.Buffer{}
	logger.Warn("careful")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "\033[") {
		t.Errorf("file output should not contain ANSI codes: %q", data)
	}
	if !strings.Contains(string(data), "WARN  careful") {
		t.Errorf("unexpected file output: %q", data)
	}
}

func TestConfigureZerolog(t *testing.T) {
	var buf bytes.Buffer
	ConfigureZerolog(&buf, LevelWarn)
	defer ConfigureZerolog(nil, LevelInfo)

	zlog.Info().Msg("quiet")
	zlog.Warn().Str("id", "x").Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info event should be filtered: %s", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "id=x") {
		t.Errorf("expected warn event, got: %s", out)
	}
}

func TestDetachContextWithTimeout(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	detached, detachedCancel := DetachContextWithTimeout(parent, 50*time.Millisecond)
	defer detachedCancel()

	cancel()
	if detached.Err() != nil {
		t.Errorf("detached should survive parent cancellation, got: %v", detached.Err())
	}

	<-detached.Done()
	if detached.Err() != context.DeadlineExceeded {
		t.Errorf("expected deadline exceeded, got: %v", detached.Err())
	}
}
