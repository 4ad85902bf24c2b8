package agreement

import (
	"bytes"
	"fmt"

	"vahq/internal/docpack"
	"vahq/internal/model"
	"vahq/internal/structure"
)

// Publish sends an instance to its client: the status moves to
// pending_client, the change is audited, the client view is archived and the
// client is notified.
//
// Only the status write can fail the call. Audit, archive and notification
// failures are logged.
func (s *Service) Publish(instanceID, actorID string) (*model.Instance, error) {
	inst, err := s.loadInstance(instanceID)
	if err != nil {
		return nil, err
	}
	return s.publish(inst, actorID, 0, inst.Structure)
}

// SaveAndPublish saves a caller-held structure and publishes it in the same
// write, so the client never sees a version that was not validated.
func (s *Service) SaveAndPublish(instanceID, actorID string, baseVersion int64, next structure.Structure) (*model.Instance, error) {
	inst, err := s.loadInstance(instanceID)
	if err != nil {
		return nil, err
	}
	return s.publish(inst, actorID, baseVersion, next.Clone())
}

func (s *Service) publish(inst *model.Instance, actorID string, baseVersion int64, next structure.Structure) (*model.Instance, error) {
	if err := structure.Validate(next); err != nil {
		return nil, err
	}
	status, err := Transition(inst.Status, EventPublish)
	if err != nil {
		return nil, err
	}
	if err := checkBase(inst, baseVersion); err != nil {
		return nil, err
	}

	inst.Structure = next
	inst.Status = status
	if err := s.save(inst); err != nil {
		return nil, err
	}
	s.logger.Info("instance published", "instance", inst.ID, "client", inst.ClientID, "version", inst.Version)

	s.record(inst, actorID, "published to client")

	if _, err := s.archive(inst, actorID); err != nil {
		s.logger.Error("archiving published document failed", "instance", inst.ID, "error", err)
	}

	if err := s.notifier.Published(inst.ID, inst.ClientID); err != nil {
		s.logger.Warn("publish notification failed", "instance", inst.ID, "client", inst.ClientID, "error", err)
	}

	return inst, nil
}

// Accept records the client's acceptance. The instance is locked afterwards.
func (s *Service) Accept(instanceID, actorID string) (*model.Instance, error) {
	inst, err := s.transition(instanceID, EventClientAccept)
	if err != nil {
		return nil, err
	}
	s.record(inst, actorID, "accepted by client")
	return inst, nil
}

// RequestChanges records that the client wants changes. The comment is
// delivered to the operator through the notifier; it is not stored on the
// instance.
func (s *Service) RequestChanges(instanceID, actorID, comment string) (*model.Instance, error) {
	inst, err := s.transition(instanceID, EventClientFeedback)
	if err != nil {
		return nil, err
	}
	s.record(inst, actorID, "client requested changes")

	if err := s.notifier.FeedbackReceived(inst.ID, comment); err != nil {
		s.logger.Warn("feedback notification failed", "instance", inst.ID, "error", err)
	}
	return inst, nil
}

// transition applies a status-only change.
func (s *Service) transition(instanceID string, ev Event) (*model.Instance, error) {
	inst, err := s.loadInstance(instanceID)
	if err != nil {
		return nil, err
	}
	status, err := Transition(inst.Status, ev)
	if err != nil {
		return nil, err
	}

	from := inst.Status
	inst.Status = status
	if err := s.save(inst); err != nil {
		return nil, err
	}

	s.logger.Info("instance status changed", "instance", inst.ID, "event", string(ev), "from", string(from), "to", string(status))
	return inst, nil
}

// archive packs the client view of inst, encrypts it when an encryptor is
// configured, stores it in the vault and records a Publication.
// It is a no-op without a vault.
func (s *Service) archive(inst *model.Instance, actorID string) (*model.Publication, error) {
	if s.vault == nil {
		return nil, nil
	}

	now := s.clock.Now()
	packed, err := docpack.Pack(docpack.Document{
		InstanceID:  inst.ID,
		TemplateID:  inst.TemplateID,
		ClientID:    inst.ClientID,
		Title:       inst.Title,
		Version:     inst.Version,
		PublishedAt: now,
		Structure:   structure.ClientView(inst.Structure),
	}, s.compression)
	if err != nil {
		return nil, fmt.Errorf("packing document: %w", err)
	}
	checksum := docpack.Checksum(packed)

	payload := packed
	encrypted := s.encryptor != nil
	if encrypted {
		var buf bytes.Buffer
		if err := s.encryptor.Encrypt(bytes.NewReader(packed), &buf); err != nil {
			return nil, fmt.Errorf("encrypting document: %w", err)
		}
		payload = buf.Bytes()
	}

	if err := s.vault.PutDocument(checksum, bytes.NewReader(payload), int64(len(payload))); err != nil {
		return nil, fmt.Errorf("uploading to vault: %w", err)
	}

	pub := &model.Publication{
		ID:          s.idgen.New(),
		InstanceID:  inst.ID,
		Version:     inst.Version,
		Checksum:    checksum,
		Encrypted:   encrypted,
		Size:        int64(len(packed)),
		ActorID:     actorID,
		PublishedAt: now,
	}
	if err := s.database.CreatePublication(pub); err != nil {
		return nil, storeErr("recording publication", err)
	}

	s.logger.Info("document archived", "instance", inst.ID, "checksum", checksum, "encrypted", encrypted)
	return pub, nil
}
