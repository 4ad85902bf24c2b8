package agreement

import "io"

// Vault stores archived client documents, addressed by checksum.
// Operations stream through io.Reader/io.Writer.
type Vault interface {
	// PutDocument stores a document under checksum. Storing the same
	// checksum twice is safe. size is the number of bytes read from r.
	PutDocument(checksum string, r io.Reader, size int64) error

	// GetDocument writes the document stored under checksum to w.
	GetDocument(checksum string, w io.Writer) error

	// ValidateSetup verifies that the vault is reachable and configured.
	ValidateSetup() error
}
