package agreement

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so audit timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the current time in UTC, truncated to microseconds so
// that values survive a round trip through either database backend.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// IDGenerator abstracts ID generation for templates, instances, audit
// entries and publications.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random (version 4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.NewString() }
