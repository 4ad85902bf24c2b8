package agreement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"vahq/internal/docpack"
	"vahq/internal/model"
)

// History returns an instance's audit entries, newest first.
func (s *Service) History(instanceID string) ([]*model.AuditEntry, error) {
	s.logger.Debug("fetching history", "instance", instanceID)

	if _, err := s.loadInstance(instanceID); err != nil {
		return nil, err
	}

	entries, err := s.audit.ListAuditEntries(instanceID)
	if err != nil {
		return nil, storeErr("listing audit entries", err)
	}
	return entries, nil
}

// ListPublications returns the archived documents of an instance, newest first.
func (s *Service) ListPublications(instanceID string) ([]*model.Publication, error) {
	if _, err := s.loadInstance(instanceID); err != nil {
		return nil, err
	}

	pubs, err := s.database.ListPublications(instanceID)
	if err != nil {
		return nil, storeErr("listing publications", err)
	}
	return pubs, nil
}

// ExportPublication fetches an archived document from the vault and writes
// it to w as indented JSON. decryptCtx is required when the archive is
// encrypted; pass nil otherwise.
func (s *Service) ExportPublication(publicationID string, decryptCtx DecryptionContext, w io.Writer) (*docpack.Document, error) {
	pub, err := s.database.FindPublication(publicationID)
	if err != nil {
		return nil, storeErr("loading publication", err)
	}
	if pub == nil {
		return nil, fmt.Errorf("%w: publication %q", ErrNotFound, publicationID)
	}
	if s.vault == nil {
		return nil, fmt.Errorf("no vault configured")
	}

	var stored bytes.Buffer
	if err := s.vault.GetDocument(pub.Checksum, &stored); err != nil {
		return nil, fmt.Errorf("downloading from vault: %w", err)
	}

	packed := stored.Bytes()
	if pub.Encrypted {
		if decryptCtx == nil {
			return nil, fmt.Errorf("publication %s is encrypted; a decryption context is required", pub.ID)
		}
		var plain bytes.Buffer
		if err := decryptCtx.Decrypt(bytes.NewReader(packed), &plain); err != nil {
			return nil, fmt.Errorf("decrypting document: %w", err)
		}
		packed = plain.Bytes()
	}

	if sum := docpack.Checksum(packed); sum != pub.Checksum {
		return nil, fmt.Errorf("checksum mismatch for publication %s: got %s, want %s", pub.ID, sum, pub.Checksum)
	}

	doc, err := docpack.Unpack(packed)
	if err != nil {
		return nil, fmt.Errorf("unpacking document: %w", err)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}

	s.logger.Info("publication exported", "publication", pub.ID, "instance", pub.InstanceID)
	return doc, nil
}
