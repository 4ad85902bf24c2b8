package testutil

import (
	"vahq/internal/encryption"
)

// NewTestEncryptor creates a deterministic, reversible encryptor.
func NewTestEncryptor() *encryption.TestEncryptor {
	return encryption.NewTestEncryptor()
}
