package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults are the paths used when no flag overrides them.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults resolves the default paths. Environment variables win over
// the XDG locations:
//   - VAHQ_CONFIG_PATH: config file (default ~/.config/vahq.toml)
//   - VAHQ_HOME: data directory (default ~/.local/share/vahq)
func GetDefaults() (*Defaults, error) {
	configPath := os.Getenv("VAHQ_CONFIG_PATH")
	baseDir := os.Getenv("VAHQ_HOME")

	if configPath == "" || baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		if configPath == "" {
			configPath = filepath.Join(home, ".config", "vahq.toml")
		}
		if baseDir == "" {
			baseDir = filepath.Join(home, ".local", "share", "vahq")
		}
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}
