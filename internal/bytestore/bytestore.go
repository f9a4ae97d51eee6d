// ABOUTME: Byte-slot store interface that every storage backend implements.
// ABOUTME: A slot is a named key holding one opaque blob, read and written whole.
package bytestore

import "errors"

// Slot names used by the ledger.
const (
	SnapshotSlot = "calories-db"
	SessionSlot  = "calories-auth-email"
)

// ErrNotFound is returned by Get when a slot has never been written.
var ErrNotFound = errors.New("slot not found")

// Store is a durable key-value byte store.
// Implementations must make Set atomic from the caller's view: a reader
// sees either the previous blob or the new one, never a mix.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	Close() error
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Badger)(nil)
	_ Store = (*SQLite)(nil)
	_ Store = (*Charm)(nil)
)
