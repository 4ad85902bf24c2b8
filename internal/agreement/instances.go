package agreement

import (
	"fmt"
	"strings"

	"vahq/internal/model"
	"vahq/internal/structure"
)

// Deploy creates a new draft instance of a template for a client. The
// instance starts from a deep copy of the template defaults, so later edits
// to either never affect the other.
func (s *Service) Deploy(templateID, clientID, operatorID string) (*model.Instance, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("client id is required")
	}

	tmpl, err := s.loadTemplate(templateID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	inst := &model.Instance{
		ID:         s.idgen.New(),
		TemplateID: tmpl.ID,
		ClientID:   clientID,
		Title:      tmpl.Title,
		Status:     model.StatusDraft,
		Structure:  tmpl.Defaults.Clone(),
		Version:    1,
		CreatedBy:  operatorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.database.CreateInstance(inst); err != nil {
		return nil, storeErr("creating instance", err)
	}

	s.record(inst, operatorID, "created from template "+tmpl.Title)
	s.logger.Info("instance deployed", "instance", inst.ID, "template", tmpl.ID, "client", clientID)
	return inst, nil
}

// ApplyEdits applies edits to an instance in order and saves the result as
// one new version with one audit entry. If any edit fails, or the result does
// not validate, nothing is saved.
//
// baseVersion is the version the caller's view was based on; pass 0 to edit
// whatever version is current.
func (s *Service) ApplyEdits(instanceID, actorID string, baseVersion int64, edits ...structure.Edit) (*model.Instance, error) {
	if len(edits) == 0 {
		return nil, fmt.Errorf("no edits to apply")
	}

	inst, err := s.loadInstance(instanceID)
	if err != nil {
		return nil, err
	}
	if err := CheckEditable(inst.Status); err != nil {
		return nil, err
	}

	next, err := structure.ApplyAll(inst.Structure, edits...)
	if err != nil {
		return nil, err
	}

	summaries := make([]string, len(edits))
	for i, e := range edits {
		summaries[i] = e.Summary()
	}

	return s.commit(inst, actorID, baseVersion, next, strings.Join(summaries, "; "))
}

// SaveStructure persists a structure the caller built up locally, replacing
// the instance's current one.
func (s *Service) SaveStructure(instanceID, actorID string, baseVersion int64, next structure.Structure, summary string) (*model.Instance, error) {
	inst, err := s.loadInstance(instanceID)
	if err != nil {
		return nil, err
	}
	if err := CheckEditable(inst.Status); err != nil {
		return nil, err
	}
	if summary == "" {
		summary = "saved structure"
	}
	return s.commit(inst, actorID, baseVersion, next.Clone(), summary)
}

// ToggleOption flips one option of a checkbox group in the instance's
// current selection. This is the client-side checkbox click.
func (s *Service) ToggleOption(instanceID, actorID, sectionID, fieldID, label string) (*model.Instance, error) {
	inst, err := s.loadInstance(instanceID)
	if err != nil {
		return nil, err
	}
	if err := CheckEditable(inst.Status); err != nil {
		return nil, err
	}

	f, err := inst.Structure.Field(sectionID, fieldID)
	if err != nil {
		return nil, err
	}
	if f.Kind != structure.KindCheckboxGroup {
		return nil, fmt.Errorf("%w: field %s/%s is %s", structure.ErrUnsupportedFieldKind, sectionID, fieldID, f.Kind)
	}

	var current []string
	if f.Value != nil {
		current, _ = f.Value.Selection()
	}
	selected := structure.ToggleSelection(current, label)

	next, err := structure.SetFieldValue(inst.Structure, sectionID, fieldID, structure.SelectionValue(selected...))
	if err != nil {
		return nil, err
	}

	verb := "selected"
	if len(selected) < len(current) {
		verb = "deselected"
	}
	summary := fmt.Sprintf("%s %q on %s/%s", verb, label, sectionID, fieldID)
	return s.commit(inst, actorID, 0, next, summary)
}

// Revert restores the structure recorded in one of the instance's audit
// entries. The revert is itself a new version with its own audit entry.
func (s *Service) Revert(instanceID, actorID, entryID string) (*model.Instance, error) {
	inst, err := s.loadInstance(instanceID)
	if err != nil {
		return nil, err
	}
	if err := CheckEditable(inst.Status); err != nil {
		return nil, err
	}

	entry, err := s.audit.FindAuditEntry(entryID)
	if err != nil {
		return nil, storeErr("loading audit entry", err)
	}
	if entry == nil || entry.InstanceID != inst.ID {
		return nil, fmt.Errorf("%w: audit entry %q for instance %q", ErrNotFound, entryID, inst.ID)
	}

	summary := fmt.Sprintf("reverted to entry %s (%s)", entry.ID, entry.Summary)
	return s.commit(inst, actorID, 0, entry.Snapshot.Clone(), summary)
}

// commit validates next, saves it on top of inst and records the change.
func (s *Service) commit(inst *model.Instance, actorID string, baseVersion int64, next structure.Structure, summary string) (*model.Instance, error) {
	if err := structure.Validate(next); err != nil {
		return nil, err
	}
	if err := checkBase(inst, baseVersion); err != nil {
		return nil, err
	}

	inst.Structure = next
	if err := s.save(inst); err != nil {
		return nil, err
	}

	s.record(inst, actorID, summary)
	s.logger.Info("instance saved", "instance", inst.ID, "version", inst.Version, "actor", actorID)
	return inst, nil
}
