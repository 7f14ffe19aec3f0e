// Package id provides centralized ID generation for TamaOS.
//
// IDs are ULIDs: lexicographically sortable, timestamp-carrying, and
// prefixed per type so logs stay readable (dev_*, req_*, conn_*).
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DeviceID identifies a century-life device instance.
type DeviceID string

// RequestID identifies an API request.
type RequestID string

// ConnID identifies a WebSocket connection.
type ConnID string

// SnapshotID identifies a persisted state snapshot.
type SnapshotID string

const (
	DevicePrefix   = "dev"
	RequestPrefix  = "req"
	ConnPrefix     = "conn"
	SnapshotPrefix = "snap"
)

// Generator generates ULIDs from a guarded entropy source.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy
// source, for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewDeviceID generates a new device ID.
func NewDeviceID() DeviceID {
	return DeviceID(Default().GenerateWithPrefix(DevicePrefix))
}

// NewRequestID generates a new request ID.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewConnID generates a new WebSocket connection ID.
func NewConnID() ConnID {
	return ConnID(Default().GenerateWithPrefix(ConnPrefix))
}

// NewSnapshotID generates a new snapshot ID.
func NewSnapshotID() SnapshotID {
	return SnapshotID(Default().GenerateWithPrefix(SnapshotPrefix))
}

func (id DeviceID) String() string   { return string(id) }
func (id RequestID) String() string  { return string(id) }
func (id ConnID) String() string     { return string(id) }
func (id SnapshotID) String() string { return string(id) }

// IsValid checks if a string is a valid bare ULID.
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Timestamp extracts the embedded timestamp from a bare ULID.
func Timestamp(id string) (time.Time, error) {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
