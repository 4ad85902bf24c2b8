package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vahq/internal/agreement"
	"vahq/internal/config"
	"vahq/internal/model"
	"vahq/internal/structure"
	"vahq/internal/templatefile"
)

const templateYAML = `
id: marketing
title: Marketing Agreement
guidance:
  - heading: Pricing
    body: Quote the **retainer**.
sections:
  - id: scope
    title: Scope
    items:
      - id: services
        label: Services
        type: checkbox_group
        options: [Email, Social]
      - id: notes
        label: Internal notes
        type: long_text
        hidden: true
  - id: terms
    title: Terms
    items:
      - id: start
        label: Start date
        type: date
      - id: agree
        label: I agree
        type: checkbox
`

func init() {
	logConsole = io.Discard
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig("op-ana", t.TempDir())
	cfg.Encryption = config.EncryptionConfig{Type: "test"}
	return cfg
}

func openApp(t *testing.T, cfg *config.Config, operation string) *App {
	t.Helper()
	a, err := NewApp(context.Background(), cfg, operation, "")
	require.NoError(t, err)
	return a
}

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marketing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(templateYAML), 0644))
	return path
}

func TestApp_Workflow(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg, "Workflow")
	defer a.Close()

	tmpl, err := a.ImportTemplate(writeTemplate(t))
	require.NoError(t, err)
	assert.Equal(t, "marketing", tmpl.ID)

	inst, err := a.Deploy("marketing", "acme")
	require.NoError(t, err)
	assert.Equal(t, "op-ana", inst.CreatedBy)

	inst, err = a.Fill(inst.ID, "terms", "start", 0, []string{"2024-02-01"})
	require.NoError(t, err)
	start, err := inst.Structure.Field("terms", "start")
	require.NoError(t, err)
	text, _ := start.Value.Text()
	assert.Equal(t, "2024-02-01", text)

	inst, err = a.Edit(inst.ID, inst.Version,
		structure.Edit{Op: structure.OpHideOption, SectionID: "scope", FieldID: "services", Option: "Email"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), inst.Version)

	inst, err = a.Publish(inst.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingClient, inst.Status)

	a.SetActor("acme")
	inst, err = a.Toggle(inst.ID, "scope", "services", "Social")
	require.NoError(t, err)
	inst, err = a.Accept(inst.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, inst.Status)

	history, err := a.History(inst.ID)
	require.NoError(t, err)
	require.Len(t, history, 6)
	assert.Equal(t, "acme", history[0].ActorID)

	pubs, err := a.Publications(inst.ID)
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.True(t, pubs[0].Encrypted)

	var out bytes.Buffer
	doc, err := a.ExportPublication(pubs[0].ID, "secret", &out)
	require.NoError(t, err)
	assert.Equal(t, "acme", doc.ClientID)
	assert.NotContains(t, out.String(), "Internal notes")
	assert.NotContains(t, out.String(), `"Email"`)

	notices, err := a.Outbox(10)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, model.NotificationPublished, notices[0].Kind)
	assert.Equal(t, "acme", notices[0].ClientID)

	html, err := a.GuidanceHTML("marketing")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>retainer</strong>")

	var exported bytes.Buffer
	require.NoError(t, a.ExportTemplate("marketing", templatefile.FormatJSON, &exported))
	assert.Contains(t, exported.String(), `"title": "Marketing Agreement"`)

	_, err = a.Edit(inst.ID, 0, structure.Edit{Op: structure.OpHideField, SectionID: "terms", FieldID: "agree"})
	assert.ErrorIs(t, err, agreement.ErrInstanceLocked)
}

func TestApp_OperationLog(t *testing.T) {
	cfg := testConfig(t)

	a := openApp(t, cfg, "ImportTemplate")
	_, err := a.ImportTemplate(writeTemplate(t))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	a = openApp(t, cfg, "Deploy")
	_, err = a.Deploy("missing", "acme")
	require.ErrorIs(t, err, agreement.ErrNotFound)
	require.NoError(t, a.Close())

	a = openApp(t, cfg, "ListTemplates")
	_, err = a.ListTemplates()
	require.NoError(t, err)
	require.NoError(t, a.Close())

	a = openApp(t, cfg, "Operations")
	defer a.Close()
	ops, err := a.Operations(10)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	assert.Equal(t, "Deploy", ops[0].Name)
	assert.Equal(t, OperationError, ops[0].Status)
	assert.Equal(t, "ImportTemplate", ops[1].Name)
	assert.Equal(t, OperationSuccess, ops[1].Status)
	assert.Equal(t, "op-ana", ops[1].ActorID)
	require.NotNil(t, ops[1].FinishedAt)

	logged, err := os.ReadFile(filepath.Join(cfg.LogDir, "vahq.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "template imported")
}

func TestApp_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
		want   string
	}{
		{name: "unknown compression", mutate: func(c *config.Config) { c.Archive.Compression = "brotli" }, want: "archive config"},
		{name: "unknown database", mutate: func(c *config.Config) { c.Database.Type = "oracle" }, want: "creating database"},
		{name: "unknown vault", mutate: func(c *config.Config) { c.Vault.Type = "ftp" }, want: "creating vault"},
		{name: "unknown encryption", mutate: func(c *config.Config) { c.Encryption.Type = "rot13" }, want: "creating encryptor"},
		{name: "unknown notifier", mutate: func(c *config.Config) { c.Notifications.Type = "pager" }, want: "creating notifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			_, err := NewApp(context.Background(), cfg, "Test", "")
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), tt.want), "error %q", err)
		})
	}
}

func TestApp_LogNotifierHasNoOutbox(t *testing.T) {
	cfg := testConfig(t)
	cfg.Notifications.Type = "log"
	a := openApp(t, cfg, "Outbox")
	defer a.Close()

	_, err := a.Outbox(10)
	assert.Error(t, err)
}

func TestApp_VaultAndKeys(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg, "CheckVault")
	assert.NoError(t, a.CheckVault())
	assert.True(t, a.EncryptionEnabled())
	assert.NoError(t, a.SetupKeys("secret"))
	require.NoError(t, a.Close())

	cfg.Vault.Type = ""
	cfg.Encryption.Type = "none"
	a = openApp(t, cfg, "CheckVault")
	defer a.Close()
	assert.Error(t, a.CheckVault())
	assert.False(t, a.EncryptionEnabled())
	assert.Error(t, a.SetupKeys("secret"))
}
