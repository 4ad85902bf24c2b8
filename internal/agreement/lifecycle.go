package agreement

import (
	"fmt"

	"vahq/internal/model"
)

// Event is something that moves an instance through its lifecycle.
type Event string

const (
	EventPublish        Event = "publish"
	EventClientAccept   Event = "client_accept"
	EventClientFeedback Event = "client_feedback"
)

// transitions is the complete table of allowed moves. Anything not listed
// is rejected.
var transitions = map[Event]map[model.Status]model.Status{
	EventPublish: {
		model.StatusDraft:            model.StatusPendingClient,
		model.StatusFeedbackReceived: model.StatusPendingClient,
	},
	EventClientAccept: {
		model.StatusPendingClient: model.StatusAccepted,
	},
	EventClientFeedback: {
		model.StatusPendingClient: model.StatusFeedbackReceived,
	},
}

// Transition returns the status an instance moves to when ev happens in
// status from, or ErrInvalidTransition.
func Transition(from model.Status, ev Event) (model.Status, error) {
	to, ok := transitions[ev][from]
	if !ok {
		return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, from)
	}
	return to, nil
}

// CheckEditable returns ErrInstanceLocked once an instance has been accepted.
// Every other status accepts structure and value edits.
func CheckEditable(status model.Status) error {
	if status == model.StatusAccepted {
		return fmt.Errorf("%w: status is %s", ErrInstanceLocked, status)
	}
	return nil
}
