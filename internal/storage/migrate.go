// ABOUTME: Data migration between byte store backends.
// ABOUTME: Copies the ledger snapshot and the session slot from source to destination.
package storage

import (
	"errors"
	"fmt"

	"github.com/harperreed/calories/internal/bytestore"
)

// ErrDestinationNotEmpty means the migration target already holds ledger data.
var ErrDestinationNotEmpty = errors.New("destination already contains data")

// ErrSourceEmpty means the migration source has no snapshot to copy.
var ErrSourceEmpty = errors.New("source contains no data")

// MigrateSummary holds per-collection counts of the copied snapshot.
type MigrateSummary struct {
	Counts        map[string]int
	SessionCopied bool
}

// MigrateSnapshot copies the snapshot and session slots from src to dst.
// The source payload must decode cleanly. A destination that already holds
// records is left alone unless force is set.
func MigrateSnapshot(src, dst bytestore.Store, force bool) (*MigrateSummary, error) {
	data, err := src.Get(bytestore.SnapshotSlot)
	if errors.Is(err, bytestore.ErrNotFound) {
		return nil, ErrSourceEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read source snapshot: %w", ErrStorageUnavailable, err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("decode source snapshot: %w", err)
	}

	if !force {
		empty, err := isEmpty(dst)
		if err != nil {
			return nil, err
		}
		if !empty {
			return nil, ErrDestinationNotEmpty
		}
	}

	if err := dst.Set(bytestore.SnapshotSlot, data); err != nil {
		return nil, fmt.Errorf("%w: write destination snapshot: %w", ErrStorageUnavailable, err)
	}

	summary := &MigrateSummary{Counts: snap.Counts()}

	email, err := src.Get(bytestore.SessionSlot)
	switch {
	case errors.Is(err, bytestore.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("%w: read source session: %w", ErrStorageUnavailable, err)
	default:
		if err := dst.Set(bytestore.SessionSlot, email); err != nil {
			return nil, fmt.Errorf("%w: write destination session: %w", ErrStorageUnavailable, err)
		}
		summary.SessionCopied = true
	}

	return summary, nil
}

// isEmpty reports whether st holds no ledger records. An unreadable
// payload counts as empty since Load would discard it anyway.
func isEmpty(st bytestore.Store) (bool, error) {
	data, err := st.Get(bytestore.SnapshotSlot)
	if errors.Is(err, bytestore.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read destination snapshot: %w", ErrStorageUnavailable, err)
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return true, nil
	}
	for _, n := range snap.Counts() {
		if n > 0 {
			return false, nil
		}
	}
	return true, nil
}
