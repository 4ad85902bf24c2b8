package agreement

import (
	"errors"
	"testing"

	"vahq/internal/model"
)

func TestTransition(t *testing.T) {
	statuses := []model.Status{
		model.StatusDraft,
		model.StatusPendingClient,
		model.StatusFeedbackReceived,
		model.StatusAccepted,
	}
	events := []Event{EventPublish, EventClientAccept, EventClientFeedback}

	allowed := map[Event]map[model.Status]model.Status{
		EventPublish: {
			model.StatusDraft:            model.StatusPendingClient,
			model.StatusFeedbackReceived: model.StatusPendingClient,
		},
		EventClientAccept:   {model.StatusPendingClient: model.StatusAccepted},
		EventClientFeedback: {model.StatusPendingClient: model.StatusFeedbackReceived},
	}

	for _, ev := range events {
		for _, from := range statuses {
			t.Run(string(ev)+"/"+string(from), func(t *testing.T) {
				got, err := Transition(from, ev)
				want, ok := allowed[ev][from]
				if ok {
					if err != nil {
						t.Fatalf("Transition() error = %v", err)
					}
					if got != want {
						t.Errorf("Transition() = %s, want %s", got, want)
					}
					return
				}
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Transition() error = %v, want ErrInvalidTransition", err)
				}
				if got != from {
					t.Errorf("Transition() = %s on error, want unchanged %s", got, from)
				}
			})
		}
	}
}

func TestCheckEditable(t *testing.T) {
	for _, s := range []model.Status{model.StatusDraft, model.StatusPendingClient, model.StatusFeedbackReceived} {
		if err := CheckEditable(s); err != nil {
			t.Errorf("CheckEditable(%s) = %v, want nil", s, err)
		}
	}
	if err := CheckEditable(model.StatusAccepted); !errors.Is(err, ErrInstanceLocked) {
		t.Errorf("CheckEditable(accepted) = %v, want ErrInstanceLocked", err)
	}
}

func TestStoreErr(t *testing.T) {
	backend := errors.New("disk full")

	err := storeErr("saving instance", backend)
	if !errors.Is(err, ErrPersistence) || !errors.Is(err, backend) {
		t.Errorf("storeErr() = %v, want ErrPersistence wrapping the backend error", err)
	}

	conflict := storeErr("saving instance", ErrConflict)
	if !errors.Is(conflict, ErrConflict) || errors.Is(conflict, ErrPersistence) {
		t.Errorf("storeErr(ErrConflict) = %v, want a plain conflict", conflict)
	}
}
