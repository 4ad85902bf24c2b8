package vault

import (
	"context"
	"fmt"

	"vahq/internal/agreement"
	"vahq/internal/config"
)

// NewVaultFromConfig creates the Vault selected by cfg.Type. An empty type
// returns a nil Vault, which disables archiving.
func NewVaultFromConfig(ctx context.Context, cfg config.VaultConfig) (agreement.Vault, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "s3":
		v, err := NewS3VaultFromConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_vault_root to be set")
		}
		v, err := NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}
