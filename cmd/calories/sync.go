// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, unlink, status, now, repair, reset, and wipe on the charm backend.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/bytestore"
	"github.com/harperreed/calories/internal/config"
	"github.com/spf13/cobra"
)

var errNeedsCharm = errors.New("sync needs the charm backend (set backend to \"" + config.BackendCharm + "\")")

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync calorie data across devices",
	Long: `Sync calorie data across devices using Charm Cloud.

Sync needs the charm backend. Switch to it with:

  calories migrate --from sqlite --to charm
  export CALORIES_BACKEND=charm

Your data is E2E encrypted with your SSH key before upload.

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  now         Push and pull right away
  repair      Repair database corruption (checkpoints WAL, removes SHM, vacuums)
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)`,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "link")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		color.Green("\n✓ Device linked to Charm")

		if c, err := charmStore(); err == nil {
			if err := c.Sync(); err != nil {
				color.Yellow("⚠ Initial sync failed: %v", err)
			} else {
				color.Green("✓ Initial sync complete")
			}
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local calorie data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "unlink")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		color.Green("✓ Device unlinked from Charm")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmStore()
		if err != nil {
			color.Yellow("%v", err)
			return nil
		}

		id, err := c.ID()
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'calories sync link' to connect to Charm.")
			return nil
		}

		fmt.Println("Charm ID:", id)
		host := cfg.CharmHost
		if host == "" {
			host = bytestore.DefaultCharmHost
		}
		fmt.Println("Server:", host)
		fmt.Println("Database:", c.Name())
		if c.IsReadOnly() {
			color.Yellow("⚠ Read-only: another process holds the database lock")
		}
		fmt.Println()

		snap, err := repo.Load()
		if err != nil {
			return err
		}
		color.Green("✓ Connected to Charm")
		counts := snap.Counts()
		fmt.Printf("  Foods: %d\n", counts["foods"])
		fmt.Printf("  Activities: %d\n", counts["activities"])
		fmt.Printf("  Days: %d\n", counts["daily_logs"])
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmStore()
		if err != nil {
			return err
		}
		if err := c.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		color.Green("✓ Synced")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Delete all local data and restore from Charm Cloud.

This is a destructive operation. All local data will be lost and restored from cloud.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmStore()
		if err != nil {
			return err
		}

		fmt.Println("This will DELETE all local calorie data and restore from cloud.")
		fmt.Print("Continue? [y/N]: ")
		var confirm string
		_, _ = fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Canceled.")
			return nil
		}

		if err := c.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		color.Green("✓ Local data reset and restored from cloud")
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption",
	Long: `Repair database corruption by checkpointing WAL, removing SHM files, checking integrity, and vacuuming.

Use this when you encounter database lock errors or corruption.
Run with --force to attempt recovery even if integrity checks fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmConfig()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		fmt.Printf("Repairing %s database...\n", config.CharmDBName)
		report, err := bytestore.RepairCharm(config.CharmDBName, force)

		if report.WalCheckpointed {
			color.Green("  ✓ WAL checkpointed")
		}
		if report.ShmRemoved {
			color.Green("  ✓ SHM file removed")
		}
		if report.IntegrityOK {
			color.Green("  ✓ Integrity check passed")
		} else {
			color.Red("  ✗ Integrity check failed")
		}
		if report.Vacuumed {
			color.Green("  ✓ Database vacuumed")
		}

		if err != nil {
			if !force {
				color.Yellow("\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		c.NewLogger().Debug("charm kv repaired", "db", config.CharmDBName, "force", force)
		color.Green("\n✓ Repair complete")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local data",
	Long: `Delete all cloud backups and local data.

This is a DESTRUCTIVE operation. ALL calorie data will be permanently deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmConfig()
		if err != nil {
			return err
		}

		fmt.Println("This will PERMANENTLY DELETE all cloud backups and local calorie data.")
		fmt.Print("Type 'wipe' to confirm: ")
		var confirm string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &confirm)
		if confirm != "wipe" {
			fmt.Println("Canceled.")
			return nil
		}

		report, err := bytestore.WipeCharm(config.CharmDBName, c.CharmHost)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Data wiped successfully")
		fmt.Printf("  Cloud backups deleted: %d\n", report.CloudBackupsDeleted)
		fmt.Printf("  Local files deleted: %d\n", report.LocalFilesDeleted)
		return nil
	},
}

// charmConfig loads the configuration for commands that act on the charm
// database without opening it.
func charmConfig() (*config.Config, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.GetBackend() != config.BackendCharm {
		return nil, errNeedsCharm
	}
	return c, nil
}

// charmStore returns the open store when it is the charm backend.
func charmStore() (*bytestore.Charm, error) {
	c, ok := slots.(*bytestore.Charm)
	if !ok {
		return nil, errNeedsCharm
	}
	return c, nil
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")

	rootCmd.AddCommand(syncCmd)
}
