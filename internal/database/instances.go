package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vahq/internal/agreement"
	"vahq/internal/model"
)

const instanceColumns = `id, template_id, client_id, title, status, structure, version, created_by, created_at, updated_at`

func (s *SQLDatabase) CreateInstance(inst *model.Instance) error {
	data, err := json.Marshal(inst.Structure)
	if err != nil {
		return fmt.Errorf("encoding structure: %w", err)
	}

	_, err = s.exec(`INSERT INTO instances (`+instanceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inst.ID, inst.TemplateID, inst.ClientID, inst.Title, string(inst.Status), string(data),
		inst.Version, inst.CreatedBy, inst.CreatedAt, inst.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting instance: %w", err)
	}
	return nil
}

func (s *SQLDatabase) FindInstance(id string) (*model.Instance, error) {
	inst, err := scanInstance(s.queryRow(`SELECT `+instanceColumns+` FROM instances WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding instance: %w", err)
	}
	return inst, nil
}

func (s *SQLDatabase) ListInstances(clientID string) ([]*model.Instance, error) {
	q := `SELECT ` + instanceColumns + ` FROM instances`
	var args []any
	if clientID != "" {
		q += ` WHERE client_id = ?`
		args = append(args, clientID)
	}
	q += ` ORDER BY updated_at DESC, id`

	rows, err := s.query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing instances: %w", err)
	}
	defer rows.Close()

	var out []*model.Instance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning instance: %w", err)
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

// SaveInstance is a compare-and-swap on the version column: the row is
// only updated if nobody else wrote it since expectedVersion was read.
func (s *SQLDatabase) SaveInstance(inst *model.Instance, expectedVersion int64) error {
	data, err := json.Marshal(inst.Structure)
	if err != nil {
		return fmt.Errorf("encoding structure: %w", err)
	}

	res, err := s.exec(`UPDATE instances
		SET title = ?, status = ?, structure = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		inst.Title, string(inst.Status), string(data), inst.Version, inst.UpdatedAt,
		inst.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("updating instance: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: instance %s is no longer at version %d", agreement.ErrConflict, inst.ID, expectedVersion)
	}
	return nil
}

func scanInstance(row scanner) (*model.Instance, error) {
	var (
		inst   model.Instance
		status string
		data   string
	)
	err := row.Scan(&inst.ID, &inst.TemplateID, &inst.ClientID, &inst.Title, &status, &data,
		&inst.Version, &inst.CreatedBy, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inst.Status = model.Status(status)
	if err := json.Unmarshal([]byte(data), &inst.Structure); err != nil {
		return nil, fmt.Errorf("decoding structure of instance %s: %w", inst.ID, err)
	}
	return &inst, nil
}
