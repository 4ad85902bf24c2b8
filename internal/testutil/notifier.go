package testutil

import (
	"sync"

	"vahq/internal/agreement"
)

// Notice is one call recorded by RecordingNotifier.
type Notice struct {
	Kind       string // "published" or "feedback"
	InstanceID string
	ClientID   string
	Comment    string
}

// RecordingNotifier records every notice. If Err is set, each call records
// the notice and then returns Err.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
	Err     error
}

var _ agreement.Notifier = (*RecordingNotifier)(nil)

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) Published(instanceID, clientID string) error {
	n.record(Notice{Kind: "published", InstanceID: instanceID, ClientID: clientID})
	return n.Err
}

func (n *RecordingNotifier) FeedbackReceived(instanceID, comment string) error {
	n.record(Notice{Kind: "feedback", InstanceID: instanceID, Comment: comment})
	return n.Err
}

func (n *RecordingNotifier) record(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

// Notices returns a copy of the recorded notices in call order.
func (n *RecordingNotifier) Notices() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.notices...)
}
