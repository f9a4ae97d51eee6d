// ABOUTME: Persister loads and saves the whole snapshot through one byte slot.
// ABOUTME: Missing or corrupt payloads are replaced with a fresh empty schema.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/calories/internal/bytestore"
	"github.com/oklog/ulid/v2"
)

// Persister serializes snapshots to a single slot of a byte store.
type Persister struct {
	slots  bytestore.Store
	key    string
	logger *log.Logger
	now    func() time.Time
}

// NewPersister returns a Persister for the snapshot slot of slots.
func NewPersister(slots bytestore.Store, logger *log.Logger, now func() time.Time) *Persister {
	if logger == nil {
		logger = log.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Persister{
		slots:  slots,
		key:    bytestore.SnapshotSlot,
		logger: logger,
		now:    now,
	}
}

// Load returns the stored snapshot. An absent or undecodable payload is
// reset to an empty snapshot, which is persisted before returning.
func (p *Persister) Load() (*Snapshot, error) {
	data, err := p.slots.Get(p.key)
	if errors.Is(err, bytestore.ErrNotFound) {
		p.logger.Debug("no stored snapshot, initializing empty schema", "slot", p.key)
		return p.reset()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load snapshot: %w", ErrStorageUnavailable, err)
	}
	if len(data) == 0 {
		p.logger.Debug("no stored snapshot, initializing empty schema", "slot", p.key)
		return p.reset()
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		p.logger.Warn("stored snapshot is unreadable, resetting to empty schema",
			"slot", p.key, "bytes", len(data), "err", err)
		return p.reset()
	}
	if snap.SchemaVersion > SchemaVersion {
		p.logger.Warn("snapshot written by a newer schema", "have", SchemaVersion, "stored", snap.SchemaVersion)
	}
	return snap, nil
}

// Save stamps the snapshot with a new revision and overwrites the slot.
func (p *Persister) Save(snap *Snapshot) error {
	snap.SchemaVersion = SchemaVersion
	snap.Revision = ulid.Make().String()
	snap.SavedAt = p.now().UTC()

	data, err := encodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := p.slots.Set(p.key, data); err != nil {
		return fmt.Errorf("%w: save snapshot: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (p *Persister) reset() (*Snapshot, error) {
	snap := NewSnapshot()
	if err := p.Save(snap); err != nil {
		return nil, err
	}
	return snap, nil
}
