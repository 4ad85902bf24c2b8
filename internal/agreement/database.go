package agreement

import (
	"time"

	"vahq/internal/model"
	"vahq/internal/structure"
)

// Database provides metadata storage for templates, instances and
// publications. Lookups return nil, nil when the record does not exist.
type Database interface {
	// Template operations

	// CreateTemplate inserts a new template.
	CreateTemplate(t *model.Template) error

	// FindTemplate returns a template by ID.
	FindTemplate(id string) (*model.Template, error)

	// ListTemplates returns all templates ordered by title.
	ListTemplates() ([]*model.Template, error)

	// UpdateTemplateDefaults replaces a template's default structure.
	UpdateTemplateDefaults(id string, defaults structure.Structure, updatedAt time.Time) error

	// Instance operations

	// CreateInstance inserts a new instance.
	CreateInstance(inst *model.Instance) error

	// FindInstance returns an instance by ID.
	FindInstance(id string) (*model.Instance, error)

	// ListInstances returns instances for a client, or all instances when
	// clientID is empty, most recently updated first.
	ListInstances(clientID string) ([]*model.Instance, error)

	// SaveInstance writes the title, status, structure, version and update
	// time of inst in one statement, provided the stored version still equals
	// expectedVersion. Otherwise it returns an error matching ErrConflict.
	SaveInstance(inst *model.Instance, expectedVersion int64) error

	// Publication operations

	// CreatePublication records an archived client document.
	CreatePublication(p *model.Publication) error

	// FindPublication returns a publication by ID.
	FindPublication(id string) (*model.Publication, error)

	// ListPublications returns an instance's publications, newest first.
	ListPublications(instanceID string) ([]*model.Publication, error)

	// Close closes the database connection.
	Close() error
}

// AuditLog is the append-only version log. Entries are never updated or
// deleted.
type AuditLog interface {
	// AppendAuditEntry stores a new entry.
	AppendAuditEntry(e *model.AuditEntry) error

	// ListAuditEntries returns an instance's entries, newest first. Entries
	// created at the same instant are returned in reverse insertion order.
	ListAuditEntries(instanceID string) ([]*model.AuditEntry, error)

	// FindAuditEntry returns a single entry by ID.
	FindAuditEntry(id string) (*model.AuditEntry, error)
}
