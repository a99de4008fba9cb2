package streetgraph

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfig implies a Config setting cannot be used
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNoStorage is returned by Save / Load when no Storage is set
	ErrNoStorage = errors.New("no storage configured")

	// ErrNoSyncer is returned by Sync when no Syncer is set
	ErrNoSyncer = errors.New("no syncer configured")

	// ErrUnknownMode is returned when parsing a mode name fails
	ErrUnknownMode = errors.New("unknown mode")

	// ErrUnknownCommand is returned when parsing a command name fails
	ErrUnknownCommand = errors.New("unknown command")

	// ErrShortcutTaken implies a chord is already bound to a command
	ErrShortcutTaken = errors.New("shortcut already bound")
)

// Storage tells the editor where to keep saved maps.
// Maps are keyed by the configured application name.
type Storage interface {
	// Load returns the data stored under key.
	// A missing key must satisfy errors.Is(err, store.ErrNotFound).
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores data under key, replacing anything already there
	Save(ctx context.Context, key string, data []byte) error
}

// Syncer streams map snapshots to a remote peer.
// Send must not block on the network; failures are reported by the
// Syncer itself (see remote.Status) rather than to the editor.
type Syncer interface {
	Send(snapshot []byte) error
	Close() error
}
