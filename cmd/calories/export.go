// ABOUTME: CLI commands for exporting and importing calorie data.
// ABOUTME: Exports JSON, YAML, or Markdown; imports JSON backups.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export calorie data",
	Long: `Export your profile, catalog, and daily logs.

FORMATS:

  json       Full JSON export (suitable for backup)
  yaml       YAML export (human-readable)
  markdown   Per-day tables (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include days on or after this date (markdown only)

EXAMPLES:

  calories export json                         # Export all data as JSON
  calories export json -o backup.json          # Save to file
  calories export yaml                         # Export as YAML
  calories export markdown --since 2024-01-01  # Days from 2024 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}

		var data []byte
		switch format := args[0]; format {
		case "json":
			data, err = repo.ExportJSON(user.ID)
		case "yaml":
			data, err = repo.ExportYAML(user.ID)
		case "markdown", "md":
			var md string
			md, err = repo.ExportMarkdown(user.ID, exportSince)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import calorie data from JSON",
	Long: `Import a JSON backup into your ledger.

This merges the profile, catalog, and daily logs of a file written by
'calories export json'. Records are attached to the signed-in user.
An existing profile is kept. A duplicate ID, or a day you already have
a log for, fails the import and nothing is written.

EXAMPLES:

  calories import backup.json                  # Import from file`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}

		filename := args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := repo.ImportJSON(user.ID, data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include days since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
