package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vahq/internal/model"
)

const auditColumns = `id, instance_id, actor_id, summary, snapshot, created_at`

func (s *SQLDatabase) AppendAuditEntry(e *model.AuditEntry) error {
	snapshot, err := json.Marshal(e.Snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err = s.exec(`INSERT INTO audit_entries (`+auditColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.InstanceID, e.ActorID, e.Summary, string(snapshot), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries orders by creation time, then by insertion sequence,
// both descending.
func (s *SQLDatabase) ListAuditEntries(instanceID string) ([]*model.AuditEntry, error) {
	rows, err := s.query(`SELECT `+auditColumns+` FROM audit_entries
		WHERE instance_id = ?
		ORDER BY created_at DESC, seq DESC`, instanceID)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var out []*model.AuditEntry
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLDatabase) FindAuditEntry(id string) (*model.AuditEntry, error) {
	e, err := scanAuditEntry(s.queryRow(`SELECT `+auditColumns+` FROM audit_entries WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding audit entry: %w", err)
	}
	return e, nil
}

func scanAuditEntry(row scanner) (*model.AuditEntry, error) {
	var (
		e        model.AuditEntry
		snapshot string
	)
	if err := row.Scan(&e.ID, &e.InstanceID, &e.ActorID, &e.Summary, &snapshot, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(snapshot), &e.Snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot of audit entry %s: %w", e.ID, err)
	}
	return &e, nil
}
