// ABOUTME: CLI commands for the activity catalog.
// ABOUTME: Supports add, list, edit, and delete of activities by ID prefix.
package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/models"
	"github.com/spf13/cobra"
)

var (
	activityName string
	activityRate float64
)

var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"act"},
	Short:   "Manage the activity catalog",
	Long: `Manage the activities you can log.

Each activity has a name and a burn rate in calories per minute.`,
}

var activityAddCmd = &cobra.Command{
	Use:     "add <name> <calories-per-minute>",
	Aliases: []string{"a"},
	Short:   "Add an activity",
	Long: `Add an activity to your catalog.

EXAMPLES:

  calories activity add "Running" 11
  calories activity add "Yoga" 3.5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		rate, err := parseNumber("calories per minute", args[1])
		if err != nil {
			return err
		}

		act, err := repo.AddActivity(user.ID, models.ActivityInput{
			Name:              args[0],
			CaloriesPerMinute: rate,
		})
		if err != nil {
			return fmt.Errorf("failed to add activity: %w", err)
		}

		color.Green("✓ Added %s (%s/min)", act.Name, kcal(act.CaloriesPerMinute))
		fmt.Printf("  ID: %s\n", faint.Sprint(shortID(act.ID)))
		return nil
	},
}

var activityListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		acts, err := repo.ListActivities(user.ID)
		if err != nil {
			return fmt.Errorf("failed to list activities: %w", err)
		}
		if len(acts) == 0 {
			fmt.Println("No activities yet. Add one with 'calories activity add'.")
			return nil
		}

		for _, a := range acts {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(a.ID)),
				padRight(truncate(a.Name, 24), 24),
				padRight(kcal(a.CaloriesPerMinute)+"/min", 16),
				faint.Sprint(humanize.Time(a.CreatedAt)))
		}
		return nil
	},
}

var activityEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an activity",
	Long: `Change fields of an activity. Only the flags you pass are changed.

EXAMPLES:

  calories activity edit 9c1e --rate 12
  calories activity edit 9c1e --name "Trail Running"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		act, err := book.ResolveActivity(user.ID, args[0])
		if err != nil {
			return err
		}

		var u models.ActivityUpdate
		if cmd.Flags().Changed("name") {
			u.Name = &activityName
		}
		if cmd.Flags().Changed("rate") {
			u.CaloriesPerMinute = &activityRate
		}

		if err := repo.UpdateActivity(act.ID, u); err != nil {
			return fmt.Errorf("failed to update activity: %w", err)
		}
		color.Green("✓ Updated %s", faint.Sprint(shortID(act.ID)))
		return nil
	},
}

var activityDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an activity",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		act, err := book.ResolveActivity(user.ID, args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteActivity(act.ID); err != nil {
			return fmt.Errorf("failed to delete activity: %w", err)
		}
		color.Green("✓ Deleted %s", act.Name)
		return nil
	},
}

func init() {
	activityEditCmd.Flags().StringVar(&activityName, "name", "", "new name")
	activityEditCmd.Flags().Float64Var(&activityRate, "rate", 0, "new calories per minute")

	activityCmd.AddCommand(activityAddCmd)
	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityEditCmd)
	activityCmd.AddCommand(activityDeleteCmd)
	rootCmd.AddCommand(activityCmd)
}
