// Package agreement orchestrates the agreement lifecycle: deploying
// templates to clients, editing and filling instances, publishing them and
// recording every change in the audit log.
package agreement

import (
	"fmt"

	"vahq/internal/docpack"
	"vahq/internal/model"
	"vahq/internal/structure"
)

// Service is the orchestration layer used by the CLI. It owns no state of
// its own; everything lives behind the collaborator interfaces.
type Service struct {
	database    Database
	audit       AuditLog
	notifier    Notifier
	vault       Vault
	encryptor   Encryptor
	compression docpack.Compression
	logger      Logger
	clock       Clock
	idgen       IDGenerator
}

// NewService creates a Service. vault and encryptor may be nil: without a
// vault nothing is archived on publish, without an encryptor archives are
// stored in the clear. A nil notifier drops notices; a nil logger, clock or
// idgen gets the default.
func NewService(database Database, audit AuditLog, notifier Notifier, vault Vault, encryptor Encryptor, logger Logger, clock Clock, idgen IDGenerator) *Service {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	if idgen == nil {
		idgen = UUIDGenerator{}
	}
	return &Service{
		database:    database,
		audit:       audit,
		notifier:    notifier,
		vault:       vault,
		encryptor:   encryptor,
		compression: docpack.CompressionZstd,
		logger:      logger,
		clock:       clock,
		idgen:       idgen,
	}
}

// SetArchiveCompression selects the compression used for published archives.
func (s *Service) SetArchiveCompression(c docpack.Compression) {
	s.compression = c
}

// GetInstance returns an instance by ID.
func (s *Service) GetInstance(id string) (*model.Instance, error) {
	return s.loadInstance(id)
}

// ListInstances returns the instances of one client, or of every client
// when clientID is empty.
func (s *Service) ListInstances(clientID string) ([]*model.Instance, error) {
	instances, err := s.database.ListInstances(clientID)
	if err != nil {
		return nil, storeErr("listing instances", err)
	}
	return instances, nil
}

// ClientDocument returns the structure of an instance as its client sees it.
func (s *Service) ClientDocument(instanceID string) (structure.Structure, error) {
	inst, err := s.loadInstance(instanceID)
	if err != nil {
		return structure.Structure{}, err
	}
	return structure.ClientView(inst.Structure), nil
}

func (s *Service) loadInstance(id string) (*model.Instance, error) {
	inst, err := s.database.FindInstance(id)
	if err != nil {
		return nil, storeErr("loading instance", err)
	}
	if inst == nil {
		return nil, fmt.Errorf("%w: instance %q", ErrNotFound, id)
	}
	return inst, nil
}

func (s *Service) loadTemplate(id string) (*model.Template, error) {
	tmpl, err := s.database.FindTemplate(id)
	if err != nil {
		return nil, storeErr("loading template", err)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: template %q", ErrNotFound, id)
	}
	return tmpl, nil
}

// record appends an audit entry holding the instance's current structure.
// A failed append is logged; the change it describes has already been saved.
func (s *Service) record(inst *model.Instance, actorID, summary string) {
	entry := &model.AuditEntry{
		ID:         s.idgen.New(),
		InstanceID: inst.ID,
		ActorID:    actorID,
		Summary:    summary,
		Snapshot:   inst.Structure.Clone(),
		CreatedAt:  s.clock.Now(),
	}
	if err := s.audit.AppendAuditEntry(entry); err != nil {
		s.logger.Error("audit append failed", "instance", inst.ID, "summary", summary, "error", err)
		return
	}
	s.logger.Debug("audit entry recorded", "instance", inst.ID, "entry", entry.ID)
}

// save writes inst as the successor of the version that was loaded. The
// caller has already applied its changes to inst.
func (s *Service) save(inst *model.Instance) error {
	expected := inst.Version
	inst.Version = expected + 1
	inst.UpdatedAt = s.clock.Now()
	if err := s.database.SaveInstance(inst, expected); err != nil {
		inst.Version = expected
		return storeErr("saving instance", err)
	}
	return nil
}

// checkBase rejects a write based on a version other than the one stored.
// baseVersion <= 0 means the caller did not pin a version.
func checkBase(inst *model.Instance, baseVersion int64) error {
	if baseVersion > 0 && baseVersion != inst.Version {
		return fmt.Errorf("%w: instance %s is at version %d, edit was based on %d", ErrConflict, inst.ID, inst.Version, baseVersion)
	}
	return nil
}
