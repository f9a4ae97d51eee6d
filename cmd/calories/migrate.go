// ABOUTME: CLI command for moving data between storage backends.
// ABOUTME: Copies the ledger snapshot and session from one backend to another.
package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/config"
	"github.com/harperreed/calories/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom    string
	migrateTo      string
	migrateFromDir string
	migrateToDir   string
	migrateForce   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data between storage backends",
	Long: `Copy all calorie data from one storage backend to another.

The whole ledger moves in one piece, along with the signed-in email.
The destination must be empty unless --force is given, in which case its
data is replaced.

EXAMPLES:

  calories migrate --from sqlite --to charm     # Start syncing
  calories migrate --from charm --to sqlite     # Go back to a local file
  calories migrate --from sqlite --to badger --to-dir /tmp/cal

AFTER MIGRATION:

  Set "backend" in ~/.config/calories/config.json (or CALORIES_BACKEND)
  to the destination so future commands use it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == "" || migrateTo == "" {
			return errors.New("both --from and --to are required")
		}

		base, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		lg := base.NewLogger()

		srcCfg := backendConfig(base, migrateFrom, migrateFromDir)
		dstCfg := backendConfig(base, migrateTo, migrateToDir)
		if srcCfg.GetBackend() == dstCfg.GetBackend() && srcCfg.GetDataDir() == dstCfg.GetDataDir() {
			return errors.New("source and destination are the same")
		}

		src, err := srcCfg.OpenByteStore(lg)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		dst, err := dstCfg.OpenByteStore(lg)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		summary, err := storage.MigrateSnapshot(src, dst, migrateForce)
		if errors.Is(err, storage.ErrDestinationNotEmpty) {
			return fmt.Errorf("%w: rerun with --force to replace it", err)
		}
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s → %s", srcCfg.GetBackend(), dstCfg.GetBackend())
		names := make([]string, 0, len(summary.Counts))
		for name := range summary.Counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s %d\n", padRight(name+":", 18), summary.Counts[name])
		}
		if summary.SessionCopied {
			fmt.Println("  Session copied")
		}
		return nil
	},
}

// backendConfig derives a config for one side of a migration.
func backendConfig(base *config.Config, backend, dir string) *config.Config {
	c := *base
	c.Backend = backend
	if dir != "" {
		c.DataDir = dir
	}
	return &c
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend (sqlite, badger, charm)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (sqlite, badger, charm)")
	migrateCmd.Flags().StringVar(&migrateFromDir, "from-dir", "", "source data directory")
	migrateCmd.Flags().StringVar(&migrateToDir, "to-dir", "", "destination data directory")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "replace data already in the destination")
	rootCmd.AddCommand(migrateCmd)
}
