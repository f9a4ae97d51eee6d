// ABOUTME: Charm KV byte-slot store with encrypted cloud backup.
// ABOUTME: Wraps charm's badger-backed KV, syncing after each write when enabled.
package bytestore

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

// DefaultCharmHost is the Charm server used when none is configured.
const DefaultCharmHost = "charm.2389.dev"

// ErrReadOnly is returned for writes while another process holds the KV lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// Charm stores slots in a Charm KV database.
type Charm struct {
	kv       *kv.KV
	name     string
	autoSync bool
	mu       sync.RWMutex
}

// CharmOptions configures OpenCharm.
type CharmOptions struct {
	// Name is the KV database name under the charm data directory.
	Name string
	// Host overrides CHARM_HOST. Empty means DefaultCharmHost.
	Host string
	// AutoSync pushes to Charm Cloud after every write.
	AutoSync bool
}

// OpenCharm opens the named Charm KV database and pulls remote state.
func OpenCharm(opts CharmOptions) (*Charm, error) {
	host := opts.Host
	if host == "" {
		host = DefaultCharmHost
	}
	// Set server before opening KV
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return nil, fmt.Errorf("set charm host: %w", err)
	}

	db, err := kv.OpenWithDefaultsFallback(opts.Name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv %s: %w", opts.Name, err)
	}

	c := &Charm{
		kv:       db,
		name:     opts.Name,
		autoSync: opts.AutoSync,
	}

	// Pull remote data on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		_ = db.Sync()
	}

	return c, nil
}

// Name returns the KV database name.
func (c *Charm) Name() string {
	return c.name
}

// Get returns the blob stored under key.
func (c *Charm) Get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("charm get %s: %w", key, err)
	}
	return value, nil
}

// Set writes value under key and syncs if enabled.
func (c *Charm) Set(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Set([]byte(key), value); err != nil {
		return fmt.Errorf("charm set %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// Delete removes key and syncs if enabled.
func (c *Charm) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Delete([]byte(key)); err != nil {
		return fmt.Errorf("charm delete %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// Close closes the KV database connection.
func (c *Charm) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Charm) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Charm) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Charm) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Charm) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// CharmRepairReport lists the steps RepairCharm completed.
type CharmRepairReport struct {
	WalCheckpointed bool
	ShmRemoved      bool
	IntegrityOK     bool
	Vacuumed        bool
}

// RepairCharm checkpoints and vacuums the named KV database. The database
// must not be open in this process. With force, recovery is attempted even
// when the integrity check fails.
func RepairCharm(name string, force bool) (CharmRepairReport, error) {
	result, err := kv.Repair(name, force)
	report := CharmRepairReport{
		WalCheckpointed: result.WalCheckpointed,
		ShmRemoved:      result.ShmRemoved,
		IntegrityOK:     result.IntegrityOK,
		Vacuumed:        result.Vacuumed,
	}
	if err != nil {
		return report, fmt.Errorf("repair charm kv %s: %w", name, err)
	}
	return report, nil
}

// CharmWipeReport counts what WipeCharm deleted.
type CharmWipeReport struct {
	CloudBackupsDeleted int
	LocalFilesDeleted   int
}

// WipeCharm deletes the cloud backups and local files of the named KV
// database. The database must not be open in this process.
func WipeCharm(name, host string) (CharmWipeReport, error) {
	if host == "" {
		host = DefaultCharmHost
	}
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return CharmWipeReport{}, fmt.Errorf("set charm host: %w", err)
	}

	result, err := kv.Wipe(name)
	if err != nil {
		return CharmWipeReport{}, fmt.Errorf("wipe charm kv %s: %w", name, err)
	}
	return CharmWipeReport{
		CloudBackupsDeleted: int(result.CloudBackupsDeleted),
		LocalFilesDeleted:   int(result.LocalFilesDeleted),
	}, nil
}

// ID returns the Charm user ID for the linked account.
func (c *Charm) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// syncIfEnabled must be called with c.mu held.
func (c *Charm) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}
