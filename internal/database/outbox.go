package database

import (
	"database/sql"
	"fmt"
	"time"

	"vahq/internal/model"
)

// Notification outbox

func (s *SQLDatabase) CreateNotification(n *model.Notification) error {
	_, err := s.exec(`INSERT INTO notifications (id, kind, instance_id, client_id, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, string(n.Kind), n.InstanceID, n.ClientID, n.Comment, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// ListNotifications returns up to limit queued notifications, newest first.
func (s *SQLDatabase) ListNotifications(limit int) ([]*model.Notification, error) {
	rows, err := s.query(`SELECT id, kind, instance_id, client_id, comment, created_at
		FROM notifications
		ORDER BY created_at DESC, seq DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*model.Notification
	for rows.Next() {
		var (
			n    model.Notification
			kind string
		)
		if err := rows.Scan(&n.ID, &kind, &n.InstanceID, &n.ClientID, &n.Comment, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		n.Kind = model.NotificationKind(kind)
		out = append(out, &n)
	}
	return out, rows.Err()
}

// Operation log

// CreateOperation records the start of a CLI operation and returns its ID.
func (s *SQLDatabase) CreateOperation(name, parameters, actorID string, startedAt time.Time) (*model.Operation, error) {
	op := &model.Operation{
		Name:       name,
		Parameters: parameters,
		ActorID:    actorID,
		Status:     "running",
		StartedAt:  startedAt,
	}
	err := s.queryRow(`INSERT INTO operations (operation, parameters, actor_id, status, started_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		name, parameters, actorID, op.Status, startedAt).Scan(&op.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting operation: %w", err)
	}
	return op, nil
}

// FinishOperation sets the final status of an operation.
func (s *SQLDatabase) FinishOperation(id int64, status string, finishedAt time.Time) error {
	_, err := s.exec(`UPDATE operations SET status = ?, finished_at = ? WHERE id = ?`, status, finishedAt, id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

// ListOperations returns the most recent operations, newest first.
func (s *SQLDatabase) ListOperations(limit int) ([]*model.Operation, error) {
	rows, err := s.query(`SELECT id, operation, parameters, actor_id, status, started_at, finished_at
		FROM operations
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var out []*model.Operation
	for rows.Next() {
		var (
			op       model.Operation
			finished sql.NullTime
		)
		if err := rows.Scan(&op.ID, &op.Name, &op.Parameters, &op.ActorID, &op.Status, &op.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			op.FinishedAt = &t
		}
		out = append(out, &op)
	}
	return out, rows.Err()
}
