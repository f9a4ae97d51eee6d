// ABOUTME: CLI commands for choosing the current identity.
// ABOUTME: Provides login, logout, and whoami.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/auth"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in as an email address",
	Long: `Sign in as an email address.

There is no password. The email picks whose foods, activities, and daily
logs you see. A user record is created the first time an email is used.

EXAMPLES:

  calories login me@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := session.SignIn(args[0])
		if err != nil {
			return fmt.Errorf("failed to sign in: %w", err)
		}
		color.Green("✓ Signed in as %s", user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Long:  `Forget the current identity. Your data is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.SignOut(); err != nil {
			return fmt.Errorf("failed to sign out: %w", err)
		}
		color.Green("✓ Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in email",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := session.Current()
		if errors.Is(err, auth.ErrSignedOut) {
			color.Yellow("Not signed in")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", user.Email, faint.Sprint(shortID(user.ID)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
