// ABOUTME: CLI commands for viewing days and the daily goal.
// ABOUTME: Provides today, day, history, and goal.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/ledger"
	"github.com/spf13/cobra"
)

var historyLimit int

var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"t"},
	Short:   "Show today's entries and summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showDay("")
	},
}

var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show a day's entries and summary",
	Long: `Show the food entries grouped by meal, the activity entries, and the
totals against your goal for one day.

EXAMPLES:

  calories day              # Today
  calories day 2024-03-01   # A past day`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := ""
		if len(args) == 1 {
			date = args[0]
		}
		return showDay(date)
	},
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist"},
	Short:   "List logged days, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		logs, err := repo.ListDailyLogs(user.ID)
		if err != nil {
			return fmt.Errorf("failed to list days: %w", err)
		}
		if len(logs) == 0 {
			fmt.Println("No days logged yet.")
			return nil
		}
		profile, err := repo.GetProfile(user.ID)
		if err != nil {
			return err
		}
		goal := float64(profile.GoalOrDefault())

		for i, l := range logs {
			if historyLimit > 0 && i >= historyLimit {
				break
			}
			net := l.NetCalories()
			netStr := kcal(net)
			if net > goal {
				netStr = color.RedString(netStr)
			}
			fmt.Printf("%s  in %s  out %s  net %s\n",
				l.Date,
				padRight(kcal(l.TotalCaloriesConsumed), 12),
				padRight(kcal(l.TotalCaloriesBurned), 12),
				netStr)
		}
		return nil
	},
}

var goalCmd = &cobra.Command{
	Use:   "goal [calories]",
	Short: "Show or set the daily calorie goal",
	Long: `Show your daily calorie goal, or set it when a number is given.

The goal is 2000 kcal until you set one.

EXAMPLES:

  calories goal          # Show
  calories goal 1800     # Set`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			profile, err := repo.GetProfile(user.ID)
			if err != nil {
				return err
			}
			fmt.Printf("Daily goal: %s\n", kcal(float64(profile.GoalOrDefault())))
			return nil
		}

		goal, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid goal: %s", args[0])
		}
		profile, err := repo.UpsertProfile(user.ID, goal)
		if err != nil {
			return fmt.Errorf("failed to set goal: %w", err)
		}
		color.Green("✓ Daily goal set to %s", kcal(float64(profile.DailyCalorieGoal)))
		return nil
	},
}

func showDay(date string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	day, err := book.Day(user.ID, date)
	if err != nil {
		return err
	}
	printDay(day)
	return nil
}

func printDay(day *ledger.Day) {
	s := day.Summary
	color.New(color.Bold).Printf("%s\n\n", s.Date)

	if len(day.Meals) == 0 && len(day.Activities) == 0 {
		fmt.Println("Nothing logged.")
	}
	for _, m := range day.Meals {
		color.New(color.Bold).Printf("%s  %s\n", m.MealType, faint.Sprint(kcal(m.Calories)))
		for _, e := range m.Entries {
			fmt.Printf("  %s x%g  %s\n", padRight(truncate(e.FoodName, 28), 28), e.Portions, kcal(e.Calories))
		}
	}
	if len(day.Activities) > 0 {
		color.New(color.Bold).Println("Activity")
		for _, a := range day.Activities {
			fmt.Printf("  %s %gmin  -%s\n", padRight(truncate(a.ActivityName, 28), 28), a.DurationMinutes, kcal(a.CaloriesBurned))
		}
	}

	fmt.Println()
	fmt.Printf("Goal      %s\n", kcal(float64(s.Goal)))
	fmt.Printf("Consumed  %s\n", kcal(s.Consumed))
	fmt.Printf("Burned    %s\n", kcal(s.Burned))
	fmt.Printf("Net       %s\n", kcal(s.Net))
	if s.Remaining < 0 {
		color.Red("Over      %s (%.0f%%)", kcal(-s.Remaining), s.Progress)
	} else {
		color.Green("Remaining %s (%.0f%%)", kcal(s.Remaining), s.Progress)
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 30, "max number of days (0 for all)")

	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(goalCmd)
}
