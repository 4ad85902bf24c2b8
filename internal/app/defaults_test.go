package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("VAHQ_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("VAHQ_HOME", "/custom/vahq")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		want := Defaults{
			ConfigPath: "/custom/config.toml",
			BaseDir:    "/custom/vahq",
			LogDir:     "/custom/vahq/log",
		}
		if *d != want {
			t.Errorf("GetDefaults() = %+v, want %+v", *d, want)
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("VAHQ_CONFIG_PATH", "")
		t.Setenv("VAHQ_HOME", "")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		home, _ := os.UserHomeDir()
		base := filepath.Join(home, ".local", "share", "vahq")
		want := Defaults{
			ConfigPath: filepath.Join(home, ".config", "vahq.toml"),
			BaseDir:    base,
			LogDir:     filepath.Join(base, "log"),
		}
		if *d != want {
			t.Errorf("GetDefaults() = %+v, want %+v", *d, want)
		}
	})

	t.Run("mixes env and fallback", func(t *testing.T) {
		t.Setenv("VAHQ_CONFIG_PATH", "")
		t.Setenv("VAHQ_HOME", "/srv/vahq")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		home, _ := os.UserHomeDir()
		if d.ConfigPath != filepath.Join(home, ".config", "vahq.toml") {
			t.Errorf("ConfigPath = %q", d.ConfigPath)
		}
		if d.LogDir != "/srv/vahq/log" {
			t.Errorf("LogDir = %q, want /srv/vahq/log", d.LogDir)
		}
	})
}
