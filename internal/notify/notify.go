// Package notify delivers lifecycle notices produced by the agreement
// service.
package notify

import (
	"fmt"

	"vahq/internal/agreement"
	"vahq/internal/model"
)

// Store persists queued notifications.
type Store interface {
	CreateNotification(n *model.Notification) error
	ListNotifications(limit int) ([]*model.Notification, error)
}

// OutboxNotifier queues notices in a Store for a separate delivery process.
type OutboxNotifier struct {
	store Store
	clock agreement.Clock
	idgen agreement.IDGenerator
}

var _ agreement.Notifier = (*OutboxNotifier)(nil)

// NewOutboxNotifier creates an OutboxNotifier writing to store.
func NewOutboxNotifier(store Store, clock agreement.Clock, idgen agreement.IDGenerator) *OutboxNotifier {
	if clock == nil {
		clock = agreement.RealClock{}
	}
	if idgen == nil {
		idgen = agreement.UUIDGenerator{}
	}
	return &OutboxNotifier{store: store, clock: clock, idgen: idgen}
}

func (o *OutboxNotifier) Published(instanceID, clientID string) error {
	return o.enqueue(&model.Notification{
		Kind:       model.NotificationPublished,
		InstanceID: instanceID,
		ClientID:   clientID,
	})
}

func (o *OutboxNotifier) FeedbackReceived(instanceID, comment string) error {
	return o.enqueue(&model.Notification{
		Kind:       model.NotificationFeedbackReceived,
		InstanceID: instanceID,
		Comment:    comment,
	})
}

func (o *OutboxNotifier) enqueue(n *model.Notification) error {
	n.ID = o.idgen.New()
	n.CreatedAt = o.clock.Now()
	if err := o.store.CreateNotification(n); err != nil {
		return fmt.Errorf("queueing %s notification: %w", n.Kind, err)
	}
	return nil
}

// Pending returns up to limit queued notices, newest first.
func (o *OutboxNotifier) Pending(limit int) ([]*model.Notification, error) {
	return o.store.ListNotifications(limit)
}

// LogNotifier writes notices to the log instead of queueing them.
type LogNotifier struct {
	logger agreement.Logger
}

var _ agreement.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger agreement.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Published(instanceID, clientID string) error {
	l.logger.Info("notify client: agreement published", "instance", instanceID, "client", clientID)
	return nil
}

func (l *LogNotifier) FeedbackReceived(instanceID, comment string) error {
	l.logger.Info("notify operator: client requested changes", "instance", instanceID, "comment", comment)
	return nil
}
