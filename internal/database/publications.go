package database

import (
	"database/sql"
	"errors"
	"fmt"

	"vahq/internal/model"
)

const publicationColumns = `id, instance_id, version, checksum, encrypted, size, actor_id, published_at`

func (s *SQLDatabase) CreatePublication(p *model.Publication) error {
	_, err := s.exec(`INSERT INTO publications (`+publicationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.InstanceID, p.Version, p.Checksum, p.Encrypted, p.Size, p.ActorID, p.PublishedAt)
	if err != nil {
		return fmt.Errorf("inserting publication: %w", err)
	}
	return nil
}

func (s *SQLDatabase) FindPublication(id string) (*model.Publication, error) {
	p, err := scanPublication(s.queryRow(`SELECT `+publicationColumns+` FROM publications WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding publication: %w", err)
	}
	return p, nil
}

func (s *SQLDatabase) ListPublications(instanceID string) ([]*model.Publication, error) {
	rows, err := s.query(`SELECT `+publicationColumns+` FROM publications
		WHERE instance_id = ?
		ORDER BY published_at DESC, version DESC`, instanceID)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	var out []*model.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPublication(row scanner) (*model.Publication, error) {
	var p model.Publication
	err := row.Scan(&p.ID, &p.InstanceID, &p.Version, &p.Checksum, &p.Encrypted, &p.Size, &p.ActorID, &p.PublishedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
