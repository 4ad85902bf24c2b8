package testutil

import (
	"errors"
	"sync"

	"vahq/internal/agreement"
	"vahq/internal/model"
)

// ErrInjected is returned by the failing fakes.
var ErrInjected = errors.New("injected failure")

// FailingAuditLog wraps an AuditLog and fails every append while Fail is
// set. Reads pass through.
type FailingAuditLog struct {
	agreement.AuditLog
	Fail bool
}

func (f *FailingAuditLog) AppendAuditEntry(e *model.AuditEntry) error {
	if f.Fail {
		return ErrInjected
	}
	return f.AuditLog.AppendAuditEntry(e)
}

// FailingDatabase wraps a Database and fails SaveInstance while FailSave
// is set, and CreatePublication while FailPublication is set.
type FailingDatabase struct {
	agreement.Database
	FailSave        bool
	FailPublication bool
}

func (f *FailingDatabase) SaveInstance(inst *model.Instance, expectedVersion int64) error {
	if f.FailSave {
		return ErrInjected
	}
	return f.Database.SaveInstance(inst, expectedVersion)
}

func (f *FailingDatabase) CreatePublication(p *model.Publication) error {
	if f.FailPublication {
		return ErrInjected
	}
	return f.Database.CreatePublication(p)
}

// LogEntry is one call captured by RecordingLogger.
type LogEntry struct {
	Level string
	Msg   string
	Args  []any
}

// RecordingLogger captures log calls for assertions.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ agreement.Logger = (*RecordingLogger)(nil)

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.add("DEBUG", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.add("INFO", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.add("WARN", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.add("ERROR", msg, args) }

func (l *RecordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

// Entries returns the captured entries at level, or all of them when
// level is empty.
func (l *RecordingLogger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []LogEntry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
