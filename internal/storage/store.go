// ABOUTME: Store is the ledger repository over an injected byte store.
// ABOUTME: Every operation runs a full load, mutate, save cycle under one mutex.
package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/calories/internal/bytestore"
)

// Store implements Repository on top of a bytestore.Store.
type Store struct {
	mu        sync.Mutex
	slots     bytestore.Store
	persister *Persister
	logger    *log.Logger
	now       func() time.Time
}

// Compile-time check that Store implements Repository.
var _ Repository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for read-repair and diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source for created_at/updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Store persisting to slots.
func New(slots bytestore.Store, opts ...Option) *Store {
	s := &Store{
		slots:  slots,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.persister = NewPersister(slots, s.logger, s.now)
	return s
}

// Slots returns the underlying byte store.
func (s *Store) Slots() bytestore.Store {
	return s.slots
}

// Load returns the current snapshot, repairing the slot if needed.
func (s *Store) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persister.Load()
}

// Close closes the underlying byte store.
func (s *Store) Close() error {
	return s.slots.Close()
}

// view loads the snapshot and passes it to fn without saving.
func (s *Store) view(fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.persister.Load()
	if err != nil {
		return err
	}
	return fn(snap)
}

// update loads the snapshot, lets fn mutate it, and saves when fn reports a
// change. An error from fn discards the mutation.
func (s *Store) update(fn func(*Snapshot) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.persister.Load()
	if err != nil {
		return err
	}
	changed, err := fn(snap)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.persister.Save(snap)
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// newestFirst orders records by creation time descending. Records created
// at the same instant keep reverse insertion order, so the last one added
// comes first.
func newestFirst[T any](in []*T, createdAt func(*T) time.Time) []*T {
	out := make([]*T, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		out = append(out, in[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]).After(createdAt(out[j]))
	})
	return out
}

// oldestFirst orders records by creation time ascending, ties by insertion.
func oldestFirst[T any](in []*T, createdAt func(*T) time.Time) []*T {
	out := append([]*T(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]).Before(createdAt(out[j]))
	})
	return out
}
