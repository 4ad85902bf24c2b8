package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"vahq/internal/agreement"
	"vahq/internal/config"
	"vahq/internal/database"
	"vahq/internal/docpack"
	"vahq/internal/encryption"
	"vahq/internal/model"
	"vahq/internal/notify"
	"vahq/internal/structure"
	"vahq/internal/templatefile"
	"vahq/internal/vault"
)

// App is the application layer between the CLI and agreement.Service.
// It constructs all dependencies from config, records state-changing
// commands in the operation log, and closes the database on Close.
type App struct {
	cfg       *config.Config
	db        *database.SQLDatabase
	vault     agreement.Vault
	encryptor agreement.Encryptor
	outbox    *notify.OutboxNotifier
	service   *agreement.Service
	clock     agreement.Clock
	logger    agreement.Logger
	actor     string
	op        *Operation
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config.
// operation names the CLI command being run (e.g. "Deploy", "Publish") and
// parameters are its arguments as typed. The caller must call Close.
func NewApp(ctx context.Context, cfg *config.Config, operation, parameters string) (*App, error) {
	compression, err := docpack.ParseCompression(cfg.Archive.Compression)
	if err != nil {
		return nil, fmt.Errorf("archive config: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	db, err := database.NewDatabaseFromConfig(ctx, cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating database: %w", err)
	}

	fail := func(err error) (*App, error) {
		db.Close()
		logFile.Close()
		return nil, err
	}

	if err := db.CheckMigrations(); err != nil {
		return fail(fmt.Errorf("database schema out of date: %w", err))
	}

	v, err := vault.NewVaultFromConfig(ctx, cfg.Vault)
	if err != nil {
		return fail(fmt.Errorf("creating vault: %w", err))
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fail(fmt.Errorf("creating encryptor: %w", err))
	}
	if enc != nil && v != nil && !enc.IsConfigured() {
		logger.Warn("encryption keys are missing, published documents will not be archived until `vahq keys init` is run")
	}

	clock := agreement.RealClock{}
	idgen := agreement.UUIDGenerator{}

	notifier, err := notify.NewNotifierFromConfig(cfg.Notifications, db, logger, clock, idgen)
	if err != nil {
		return fail(fmt.Errorf("creating notifier: %w", err))
	}
	outbox, _ := notifier.(*notify.OutboxNotifier)

	svc := agreement.NewService(db, db, notifier, v, enc, logger, clock, idgen)
	svc.SetArchiveCompression(compression)

	return &App{
		cfg:       cfg,
		db:        db,
		vault:     v,
		encryptor: enc,
		outbox:    outbox,
		service:   svc,
		clock:     clock,
		logger:    logger,
		actor:     cfg.OperatorID,
		op:        NewOperation(operation, parameters),
		logFile:   logFile,
	}, nil
}

// SetActor overrides the actor recorded for changes made through this App.
// An empty actor keeps the configured operator.
func (a *App) SetActor(actor string) {
	if actor != "" {
		a.actor = actor
	}
}

// Actor returns the actor recorded for changes.
func (a *App) Actor() string {
	return a.actor
}

// persistOperation saves the operation to the database, giving it an
// auto-increment ID. Only state-changing commands call it.
func (a *App) persistOperation() error {
	if a.op.Persisted() {
		return nil
	}
	rec, err := a.db.CreateOperation(a.op.Name, a.op.Parameters, a.actor, a.clock.Now())
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = rec.ID
	return nil
}

// mutate runs fn as part of the persisted operation and marks the operation
// failed when fn returns an error.
func mutate[T any](a *App, fn func() (T, error)) (T, error) {
	if err := a.persistOperation(); err != nil {
		var zero T
		return zero, err
	}
	out, err := fn()
	if err != nil {
		a.op.Fail()
	}
	return out, err
}

// ImportTemplate reads a YAML or JSON template file and stores it.
func (a *App) ImportTemplate(path string) (*model.Template, error) {
	return mutate(a, func() (*model.Template, error) {
		tmpl, err := templatefile.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return a.service.ImportTemplate(tmpl)
	})
}

func (a *App) ListTemplates() ([]*model.Template, error) {
	return a.service.ListTemplates()
}

func (a *App) GetTemplate(id string) (*model.Template, error) {
	return a.service.GetTemplate(id)
}

// GuidanceHTML renders a template's guidance sections to HTML.
func (a *App) GuidanceHTML(templateID string) (string, error) {
	tmpl, err := a.service.GetTemplate(templateID)
	if err != nil {
		return "", err
	}
	return templatefile.RenderGuidance(tmpl.Guidance)
}

// ExportTemplate writes a template in the given file format.
func (a *App) ExportTemplate(templateID string, format templatefile.Format, w io.Writer) error {
	tmpl, err := a.service.GetTemplate(templateID)
	if err != nil {
		return err
	}
	data, err := templatefile.Encode(tmpl, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// PromoteInstance copies an instance's structure onto its template's defaults.
func (a *App) PromoteInstance(instanceID string) (*model.Template, error) {
	return mutate(a, func() (*model.Template, error) {
		return a.service.SaveAsTemplateDefaults(instanceID, a.actor)
	})
}

func (a *App) Deploy(templateID, clientID string) (*model.Instance, error) {
	return mutate(a, func() (*model.Instance, error) {
		return a.service.Deploy(templateID, clientID, a.actor)
	})
}

func (a *App) ListInstances(clientID string) ([]*model.Instance, error) {
	return a.service.ListInstances(clientID)
}

func (a *App) GetInstance(id string) (*model.Instance, error) {
	return a.service.GetInstance(id)
}

func (a *App) ClientDocument(instanceID string) (structure.Structure, error) {
	return a.service.ClientDocument(instanceID)
}

// Edit applies customization edits as one new version.
func (a *App) Edit(instanceID string, baseVersion int64, edits ...structure.Edit) (*model.Instance, error) {
	return mutate(a, func() (*model.Instance, error) {
		return a.service.ApplyEdits(instanceID, a.actor, baseVersion, edits...)
	})
}

// Fill sets a field value from command-line words, parsed according to the
// field's kind.
func (a *App) Fill(instanceID, sectionID, fieldID string, baseVersion int64, words []string) (*model.Instance, error) {
	return mutate(a, func() (*model.Instance, error) {
		inst, err := a.service.GetInstance(instanceID)
		if err != nil {
			return nil, err
		}
		f, err := inst.Structure.Field(sectionID, fieldID)
		if err != nil {
			return nil, err
		}
		v, err := ParseValue(f.Kind, words)
		if err != nil {
			return nil, err
		}
		return a.service.ApplyEdits(instanceID, a.actor, baseVersion, structure.Edit{
			Op:        structure.OpSetValue,
			SectionID: sectionID,
			FieldID:   fieldID,
			Value:     v,
		})
	})
}

// Toggle flips one checkbox-group option, as a client click would.
func (a *App) Toggle(instanceID, sectionID, fieldID, label string) (*model.Instance, error) {
	return mutate(a, func() (*model.Instance, error) {
		return a.service.ToggleOption(instanceID, a.actor, sectionID, fieldID, label)
	})
}

func (a *App) Publish(instanceID string) (*model.Instance, error) {
	return mutate(a, func() (*model.Instance, error) {
		return a.service.Publish(instanceID, a.actor)
	})
}

func (a *App) Accept(instanceID string) (*model.Instance, error) {
	return mutate(a, func() (*model.Instance, error) {
		return a.service.Accept(instanceID, a.actor)
	})
}

func (a *App) RequestChanges(instanceID, comment string) (*model.Instance, error) {
	return mutate(a, func() (*model.Instance, error) {
		return a.service.RequestChanges(instanceID, a.actor, comment)
	})
}

func (a *App) Revert(instanceID, entryID string) (*model.Instance, error) {
	return mutate(a, func() (*model.Instance, error) {
		return a.service.Revert(instanceID, a.actor, entryID)
	})
}

func (a *App) History(instanceID string) ([]*model.AuditEntry, error) {
	return a.service.History(instanceID)
}

func (a *App) Publications(instanceID string) ([]*model.Publication, error) {
	return a.service.ListPublications(instanceID)
}

// ExportPublication writes an archived document to w as JSON. passphrase
// unlocks the private key and is only used when the archive is encrypted.
func (a *App) ExportPublication(publicationID, passphrase string, w io.Writer) (*docpack.Document, error) {
	var ctx agreement.DecryptionContext
	if a.encryptor != nil && passphrase != "" {
		var err error
		ctx, err = a.encryptor.Unlock(passphrase)
		if err != nil {
			return nil, fmt.Errorf("unlocking private key: %w", err)
		}
	}
	return a.service.ExportPublication(publicationID, ctx, w)
}

// EncryptionEnabled reports whether archives are encrypted.
func (a *App) EncryptionEnabled() bool {
	return a.encryptor != nil
}

// SetupKeys generates the archive key pair.
func (a *App) SetupKeys(passphrase string) error {
	if a.encryptor == nil {
		return fmt.Errorf("encryption is disabled in the config")
	}
	return a.encryptor.Setup(passphrase)
}

// CheckVault verifies that the configured vault is reachable.
func (a *App) CheckVault() error {
	if a.vault == nil {
		return fmt.Errorf("no vault configured")
	}
	return a.vault.ValidateSetup()
}

// Outbox returns up to limit queued notifications, newest first.
func (a *App) Outbox(limit int) ([]*model.Notification, error) {
	if a.outbox == nil {
		return nil, fmt.Errorf("notifications are not queued (type %q)", a.cfg.Notifications.Type)
	}
	return a.outbox.Pending(limit)
}

// Operations returns the most recent state-changing commands.
func (a *App) Operations(limit int) ([]*model.Operation, error) {
	return a.db.ListOperations(limit)
}

// Close finishes the operation record, if one was persisted, and closes all
// resources.
func (a *App) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(a.op.ID, a.op.Status, a.clock.Now()); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
