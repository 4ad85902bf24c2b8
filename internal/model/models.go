package model

import (
	"time"

	"vahq/internal/structure"
)

// Status is the lifecycle state of an agreement instance.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusPendingClient    Status = "pending_client"
	StatusFeedbackReceived Status = "feedback_received"
	StatusAccepted         Status = "accepted"
)

// Template is the master copy of an agreement type.
// Instances are deployed from it by deep-copying Defaults.
type Template struct {
	ID          string              // UUID or operator-chosen slug
	Title       string              // Shown to operators and copied onto instances
	Category    string              // Free-form grouping, e.g. "marketing"
	Description string              // Short operator-facing summary
	Guidance    []GuidanceSection   // Internal reference material, markdown
	Defaults    structure.Structure // Starting structure for new instances
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GuidanceSection is one titled block of free-text guidance.
type GuidanceSection struct {
	Heading string `json:"heading" yaml:"heading"`
	Body    string `json:"body" yaml:"body"` // Markdown
}

// Instance is one client's copy of a template.
type Instance struct {
	ID         string              // UUID
	TemplateID string              // Template it was deployed from
	ClientID   string              // Client the agreement is addressed to
	Title      string              // Copied from the template at deploy time
	Status     Status              // Lifecycle state
	Structure  structure.Structure // Current customized and filled document
	Version    int64               // Starts at 1, incremented on every write
	CreatedBy  string              // Operator who deployed it
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AuditEntry is an append-only record of a change to an instance.
// Snapshot is the full structure after the change, never a diff.
type AuditEntry struct {
	ID         string // UUID
	InstanceID string // Foreign key to Instance
	ActorID    string // Operator or client who made the change
	Summary    string // Human-readable description
	Snapshot   structure.Structure
	CreatedAt  time.Time
}

// Publication records a client-facing document archived at publish time.
// The archive lives in the vault under Checksum.
type Publication struct {
	ID          string    // UUID
	InstanceID  string    // Foreign key to Instance
	Version     int64     // Instance version that was published
	Checksum    string    // BLAKE3 of the packed document (before encryption)
	Encrypted   bool      // Whether the vault copy is encrypted
	Size        int64     // Packed size in bytes
	ActorID     string    // Who published
	PublishedAt time.Time // When
}

// NotificationKind distinguishes outbox messages.
type NotificationKind string

const (
	NotificationPublished        NotificationKind = "published"
	NotificationFeedbackReceived NotificationKind = "feedback_received"
)

// Notification is a message queued for delivery to a client or operator.
type Notification struct {
	ID         string // UUID
	Kind       NotificationKind
	InstanceID string
	ClientID   string // Set for publish notices
	Comment    string // Set for feedback notices
	CreatedAt  time.Time
}

// Operation records one state-changing CLI command.
type Operation struct {
	ID         int64
	Name       string // Command, e.g. "Publish"
	Parameters string // Arguments as typed
	ActorID    string
	Status     string // "running", "success" or "error"
	StartedAt  time.Time
	FinishedAt *time.Time
}
