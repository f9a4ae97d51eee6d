// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for the signed-in user.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/calories/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server acts as the signed-in user and communicates via stdin/stdout.
Sign in first with 'calories login <email>'.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "calories": {
        "command": "calories",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_foods, add_food, update_food, delete_food
  list_activities, add_activity, update_activity, delete_activity
  log_food, log_activity
  get_day, get_summary, set_goal

AVAILABLE RESOURCES:

  calories://today        Today's entries and summary
  calories://foods        Food catalog
  calories://activities   Activity catalog`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(repo, book, user, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
