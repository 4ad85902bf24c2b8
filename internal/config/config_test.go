package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		OperatorID: "op-alice",
		BaseDir:    "/home/alice/.local/share/vahq",
		LogDir:     "/home/alice/.local/share/vahq/log",
		Database:   DatabaseConfig{Type: "postgres", DSN: "postgres://vahq@localhost/vahq"},
		Vault: VaultConfig{
			Type:       "s3",
			Name:       "archive",
			S3Bucket:   "vahq-archive",
			S3Prefix:   "published/",
			S3Region:   "eu-west-1",
			S3Endpoint: "http://localhost:9000",
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  "/keys/vahq.pub",
			PrivateKeyPath: "/keys/vahq.key",
		},
		Notifications: NotificationsConfig{Type: "log"},
		Archive:       ArchiveConfig{Compression: "lz4"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if *got != *original {
		t.Errorf("Read() = %+v, want %+v", got, original)
	}
}

func TestManager_Read_Partial(t *testing.T) {
	src := `
operator_id = "op-bob"

[database]
type = "memory"
`
	m := &Manager{}
	got, err := m.Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.OperatorID != "op-bob" {
		t.Errorf("OperatorID = %q, want %q", got.OperatorID, "op-bob")
	}
	if got.Database.Type != "memory" {
		t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
	}
	if got.Vault.Type != "" {
		t.Errorf("Vault.Type = %q, want empty", got.Vault.Type)
	}
}

func TestManager_Read_Invalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("operator_id = ")); err == nil {
		t.Fatal("Read() expected error for malformed TOML")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("op-1", "/data/vahq")

	tests := []struct {
		name, got, want string
	}{
		{"OperatorID", cfg.OperatorID, "op-1"},
		{"BaseDir", cfg.BaseDir, "/data/vahq"},
		{"LogDir", cfg.LogDir, "/data/vahq/log"},
		{"Database.Type", cfg.Database.Type, "sqlite"},
		{"Database.DataDir", cfg.Database.DataDir, "/data/vahq/db"},
		{"Vault.Type", cfg.Vault.Type, "filesystem"},
		{"Vault.FSVaultRoot", cfg.Vault.FSVaultRoot, "/data/vahq/vault"},
		{"Encryption.Type", cfg.Encryption.Type, "age"},
		{"Encryption.PublicKeyPath", cfg.Encryption.PublicKeyPath, "/data/vahq/keys/vahq.pub"},
		{"Encryption.PrivateKeyPath", cfg.Encryption.PrivateKeyPath, "/data/vahq/keys/vahq.key"},
		{"Notifications.Type", cfg.Notifications.Type, "outbox"},
		{"Archive.Compression", cfg.Archive.Compression, "zstd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "vahq.toml")

		if err := Init(path, NewConfig("op-1", dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "vahq.toml")
		cfg := NewConfig("op-1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "vahq.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.OperatorID != "read-test" {
			t.Errorf("OperatorID = %q, want %q", got.OperatorID, "read-test")
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/vahq.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
