package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vahq/internal/model"
	"vahq/internal/structure"
)

const templateColumns = `id, title, category, description, guidance, defaults, created_at, updated_at`

func (s *SQLDatabase) CreateTemplate(t *model.Template) error {
	guidance, err := json.Marshal(t.Guidance)
	if err != nil {
		return fmt.Errorf("encoding guidance: %w", err)
	}
	defaults, err := json.Marshal(t.Defaults)
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}

	_, err = s.exec(`INSERT INTO templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Category, t.Description, string(guidance), string(defaults), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

func (s *SQLDatabase) FindTemplate(id string) (*model.Template, error) {
	t, err := scanTemplate(s.queryRow(`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding template: %w", err)
	}
	return t, nil
}

func (s *SQLDatabase) ListTemplates() ([]*model.Template, error) {
	rows, err := s.query(`SELECT ` + templateColumns + ` FROM templates ORDER BY category, title, id`)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var out []*model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLDatabase) UpdateTemplateDefaults(id string, defaults structure.Structure, updatedAt time.Time) error {
	data, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}

	res, err := s.exec(`UPDATE templates SET defaults = ?, updated_at = ? WHERE id = ?`, string(data), updatedAt, id)
	if err != nil {
		return fmt.Errorf("updating template defaults: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("updating template defaults: no template %q", id)
	}
	return nil
}

func scanTemplate(row scanner) (*model.Template, error) {
	var (
		t                  model.Template
		guidance, defaults string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Category, &t.Description, &guidance, &defaults, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(guidance), &t.Guidance); err != nil {
		return nil, fmt.Errorf("decoding guidance of template %s: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(defaults), &t.Defaults); err != nil {
		return nil, fmt.Errorf("decoding defaults of template %s: %w", t.ID, err)
	}
	return &t, nil
}
