package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestVahqHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   slog.LevelInfo,
			message: "instance published",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\tinstance published\n",
		},
		{
			name:    "record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "instance saved",
			attrs:   []slog.Attr{slog.String("instance", "i-1"), slog.Int64("version", 4)},
			want:    "2024-06-15T14:30:45Z\tINFO\top-789\tinstance saved\tinstance=i-1\tversion=4\n",
		},
		{
			name:    "values with spaces are quoted",
			opID:    "op-1",
			level:   slog.LevelError,
			message: "audit append failed",
			attrs:   []slog.Attr{slog.String("summary", "hid field s2/agree"), slog.Any("error", errors.New("disk full"))},
			want:    "2024-06-15T14:30:45Z\tERROR\top-1\taudit append failed\tsummary=\"hid field s2/agree\"\terror=\"disk full\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &vahqHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestVahqHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &vahqHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "vault")}).(*vahqHandler)
	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}

	r := slog.NewRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelInfo, "upload", 0)
	r.AddAttrs(slog.String("key", "abc"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "\ta=1\tcomponent=vault\tkey=abc\n") {
		t.Errorf("attrs not written in order, got: %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	var console bytes.Buffer
	prev := logConsole
	logConsole = &console
	t.Cleanup(func() { logConsole = prev })

	logger, f, err := newLogger(dir, "test-op")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	(&slogAdapter{l: logger}).Warn("publish notification failed", "instance", "i-1")

	data, err := os.ReadFile(filepath.Join(dir, "vahq.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "\tWARN\ttest-op\tpublish notification failed\tinstance=i-1\n") {
		t.Errorf("log file = %q", data)
	}
	if console.String() != string(data) {
		t.Errorf("console copy = %q, want %q", console.String(), data)
	}
}
