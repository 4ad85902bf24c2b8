package testutil

import (
	"vahq/internal/vault"
)

// NewTestVault creates an empty in-memory vault.
func NewTestVault() *vault.MemoryVault {
	return vault.NewMemoryVault("test-vault")
}
