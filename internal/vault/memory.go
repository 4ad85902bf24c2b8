package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"vahq/internal/agreement"
)

// MemoryVault keeps documents in memory. It is safe for concurrent use.
type MemoryVault struct {
	name      string
	documents map[string][]byte // checksum -> stored bytes
	mu        sync.RWMutex
}

// NewMemoryVault creates an empty in-memory vault.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:      name,
		documents: make(map[string][]byte),
	}
}

// PutDocument stores the bytes read from r under checksum.
func (m *MemoryVault) PutDocument(checksum string, r io.Reader, size int64) error {
	if err := checkChecksum(checksum); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[checksum] = data
	return nil
}

// GetDocument writes the document stored under checksum to w.
func (m *MemoryVault) GetDocument(checksum string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.documents[checksum]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, checksum)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Len returns the number of stored documents.
func (m *MemoryVault) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents)
}

// ValidateSetup always succeeds for the in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

var _ agreement.Vault = (*MemoryVault)(nil)
