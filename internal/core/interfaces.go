package core

import (
	"errors"

	"github.com/dkeye/Hearth/internal/domain"
)

// TrySend failures.
var (
	ErrBackpressure = errors.New("send buffer full")
	ErrConnClosed   = errors.New("connection closed")
)

// Frame is one encoded outbound message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it. TrySend never blocks
// and fails with ErrBackpressure or ErrConnClosed.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// RoomStore is the durable side of room metadata.
type RoomStore interface {
	LoadAll() ([]domain.RoomRecord, error)
	// Save creates the room directory if needed and overwrites the record.
	Save(rec domain.RoomRecord) error
	// BackgroundAssetPath returns the background image path if the file exists.
	BackgroundAssetPath(name domain.SafeName) (string, bool)
}

// Persister accepts metadata writes that must not hold up event handling.
type Persister interface {
	Enqueue(rec domain.RoomRecord)
}
