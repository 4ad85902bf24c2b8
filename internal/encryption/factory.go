package encryption

import (
	"fmt"

	"vahq/internal/agreement"
	"vahq/internal/config"
)

// NewEncryptorFromConfig creates the Encryptor selected by cfg.Type.
// Type "none" returns a nil Encryptor: archives are stored unencrypted.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (agreement.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("age encryption requires public_key_path and private_key_path")
		}
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
