// ABOUTME: Sentinel errors for the ledger store.
// ABOUTME: Callers match them with errors.Is; messages carry the wrapped detail.
package storage

import "errors"

var (
	// ErrCorruptPayload means the stored snapshot could not be decoded.
	// Load repairs it internally and never returns it.
	ErrCorruptPayload = errors.New("corrupt snapshot payload")

	// ErrStorageUnavailable means the byte store could not be read or written.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidInput means a value violated a ledger invariant.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDailyLogNotFound means an entry referenced an unknown daily log.
	ErrDailyLogNotFound = errors.New("daily log not found")
)
