// ABOUTME: Root Cobra command for the calories CLI.
// ABOUTME: Opens the configured store in PersistentPreRunE and closes it afterwards.
package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/calories/internal/auth"
	"github.com/harperreed/calories/internal/bytestore"
	"github.com/harperreed/calories/internal/config"
	"github.com/harperreed/calories/internal/ledger"
	"github.com/harperreed/calories/internal/models"
	"github.com/harperreed/calories/internal/storage"
	"github.com/spf13/cobra"
)

var (
	backendFlag string
	dataDirFlag string
	debugFlag   bool

	cfg     *config.Config
	logger  *log.Logger
	slots   bytestore.Store
	repo    *storage.Store
	session *auth.Session
	book    *ledger.Ledger
)

var rootCmd = &cobra.Command{
	Use:   "calories",
	Short: "Personal calorie tracker",
	Long: `Calories is a CLI tool for tracking food intake and exercise against a
daily calorie goal.

QUICK START:

  $ calories login me@example.com                   # Pick who you are
  $ calories food add "Oatmeal" 150 --serving "1 cup" --category Breakfast
  $ calories activity add "Running" 11              # kcal per minute
  $ calories log food 3f2a 1.5 --meal Breakfast     # Log by ID prefix
  $ calories log activity 9c1e 30                   # 30 minutes
  $ calories today                                  # Today's summary
  $ calories goal 1800                              # Set daily goal

STORAGE BACKENDS:

  sqlite   Single file at ~/.local/share/calories/calories.db (default)
  badger   Directory at ~/.local/share/calories/badger
  charm    Charm KV, synced across devices and E2E encrypted
  memory   Nothing persisted (testing)

  Choose one in ~/.config/calories/config.json, with CALORIES_BACKEND,
  or with --backend.

MCP INTEGRATION:

  Run 'calories mcp' to start the Model Context Protocol server for use
  with Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "calories": { "command": "calories", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store init for commands that don't need it
		switch cmd.Name() {
		case "version", "help", "migrate", "install-skill", "repair", "wipe":
			return nil
		}
		return openStore()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

// Execute runs the root command and always releases the store.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeStore(); err == nil {
		err = cerr
	}
	return err
}

func loadConfig() (*config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		c.Backend = backendFlag
	}
	if dataDirFlag != "" {
		c.DataDir = dataDirFlag
	}
	if debugFlag {
		c.LogLevel = "debug"
	}
	return c, nil
}

func openStore() error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger = cfg.NewLogger()

	slots, err = cfg.OpenByteStore(logger)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.GetBackend(), err)
	}
	logger.Debug("opened store", "backend", cfg.GetBackend(), "dir", cfg.GetDataDir())

	repo = storage.New(slots, storage.WithLogger(logger))
	session = auth.NewSession(slots, repo)
	book = ledger.New(repo, nil)
	return nil
}

func closeStore() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo, slots, session, book = nil, nil, nil, nil
	return err
}

// requireUser returns the signed-in user or a hint to log in.
func requireUser() (*models.User, error) {
	user, err := session.Current()
	if errors.Is(err, auth.ErrSignedOut) {
		return nil, errors.New("not signed in: run 'calories login <email>' first")
	}
	return user, err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend (sqlite, badger, charm, memory)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory for local backends")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}
