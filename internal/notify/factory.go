package notify

import (
	"fmt"

	"vahq/internal/agreement"
	"vahq/internal/config"
)

// NewNotifierFromConfig creates the Notifier selected by cfg.Type.
func NewNotifierFromConfig(cfg config.NotificationsConfig, store Store, logger agreement.Logger, clock agreement.Clock, idgen agreement.IDGenerator) (agreement.Notifier, error) {
	switch cfg.Type {
	case "outbox", "":
		if store == nil {
			return nil, fmt.Errorf("outbox notifications require a store")
		}
		return NewOutboxNotifier(store, clock, idgen), nil
	case "log":
		return NewLogNotifier(logger), nil
	default:
		return nil, fmt.Errorf("unknown notifications type: %q", cfg.Type)
	}
}
