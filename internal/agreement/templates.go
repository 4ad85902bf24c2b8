package agreement

import (
	"fmt"
	"strings"

	"vahq/internal/model"
	"vahq/internal/structure"
)

// ImportTemplate stores a new template. An empty ID is assigned; an ID that
// is already taken is a conflict. The defaults must be a valid structure.
func (s *Service) ImportTemplate(t *model.Template) (*model.Template, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, fmt.Errorf("template title is required")
	}
	if err := structure.Validate(t.Defaults); err != nil {
		return nil, fmt.Errorf("template %q: %w", t.Title, err)
	}

	if t.ID == "" {
		t.ID = s.idgen.New()
	} else {
		existing, err := s.database.FindTemplate(t.ID)
		if err != nil {
			return nil, storeErr("checking for existing template", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: template %q already exists", ErrConflict, t.ID)
		}
	}

	now := s.clock.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Defaults = t.Defaults.Clone()

	if err := s.database.CreateTemplate(t); err != nil {
		return nil, storeErr("creating template", err)
	}

	s.logger.Info("template imported", "template", t.ID, "title", t.Title)
	return t, nil
}

// GetTemplate returns a template by ID.
func (s *Service) GetTemplate(id string) (*model.Template, error) {
	return s.loadTemplate(id)
}

// ListTemplates returns every template.
func (s *Service) ListTemplates() ([]*model.Template, error) {
	templates, err := s.database.ListTemplates()
	if err != nil {
		return nil, storeErr("listing templates", err)
	}
	return templates, nil
}

// UpdateTemplateDefaults replaces the structure new instances start from.
// Existing instances are not affected.
func (s *Service) UpdateTemplateDefaults(id string, defaults structure.Structure) (*model.Template, error) {
	if err := structure.Validate(defaults); err != nil {
		return nil, err
	}

	tmpl, err := s.loadTemplate(id)
	if err != nil {
		return nil, err
	}

	tmpl.Defaults = defaults.Clone()
	tmpl.UpdatedAt = s.clock.Now()
	if err := s.database.UpdateTemplateDefaults(tmpl.ID, tmpl.Defaults, tmpl.UpdatedAt); err != nil {
		return nil, storeErr("updating template defaults", err)
	}

	s.logger.Info("template defaults updated", "template", tmpl.ID)
	return tmpl, nil
}

// SaveAsTemplateDefaults copies an instance's current structure, filled
// values included, onto the template it was deployed from.
func (s *Service) SaveAsTemplateDefaults(instanceID, actorID string) (*model.Template, error) {
	inst, err := s.loadInstance(instanceID)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.UpdateTemplateDefaults(inst.TemplateID, inst.Structure)
	if err != nil {
		return nil, fmt.Errorf("promoting instance %s: %w", inst.ID, err)
	}

	s.logger.Info("instance promoted to template defaults", "instance", inst.ID, "template", tmpl.ID, "actor", actorID)
	return tmpl, nil
}
