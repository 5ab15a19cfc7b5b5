package logging

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level     string
		info, dbg bool
	}{
		{"none", false, false},
		{"normal", true, false},
		{"debug", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log, closeFn, err := New(Options{Level: tt.level, Console: &buf})
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			defer closeFn()
			log.Info("info-line")
			log.Debug("debug-line")
			_ = log.Sync()
			if got := strings.Contains(buf.String(), "info-line"); got != tt.info {
				t.Errorf("info logged = %v, want %v", got, tt.info)
			}
			if got := strings.Contains(buf.String(), "debug-line"); got != tt.dbg {
				t.Errorf("debug logged = %v, want %v", got, tt.dbg)
			}
		})
	}
}

func TestUnknownLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "trace"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestFileSinkLogsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recforge.log")
	log, closeFn, err := New(Options{Level: "none", File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Debug("to-file", zap.String("record", "Point"))
	_ = log.Sync()
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to-file") || !strings.Contains(string(data), "Point") {
		t.Fatalf("file log = %q", data)
	}
}

func TestConsoleFlattensErrors(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Level: "normal", Console: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	wrapped := fmt.Errorf("derive Point: %w", errors.New("boom"))
	log.Warn("failed", zap.Error(wrapped))
	_ = log.Sync()
	if strings.Contains(buf.String(), "errorVerbose") {
		t.Fatalf("console log carries verbose error: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "derive Point: boom") {
		t.Fatalf("console log = %q", buf.String())
	}
}
