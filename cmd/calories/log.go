// ABOUTME: CLI commands for logging food and activity entries.
// ABOUTME: Computes calories from the catalog and appends to the day's log.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/models"
	"github.com/spf13/cobra"
)

var (
	logMeal string
	logDate string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log food eaten or activity done",
	Long: `Log a food or activity against a day.

Calories are computed from the catalog at the time you log. Editing or
deleting the food or activity later does not change logged entries.

EXAMPLES:

  calories log food 3f2a 2 --meal Lunch       # Two servings for lunch
  calories log food 3f2a 1 --date 2024-03-01  # Back-fill a past day
  calories log activity 9c1e 45               # 45 minutes`,
}

var logFoodCmd = &cobra.Command{
	Use:   "food <food-id> <portions>",
	Short: "Log servings of a food",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		portions, err := parseNumber("portions", args[1])
		if err != nil {
			return err
		}
		meal, err := normalizeMeal(logMeal)
		if err != nil {
			return err
		}

		entry, err := book.LogFood(user.ID, args[0], portions, meal, logDate)
		if err != nil {
			return fmt.Errorf("failed to log food: %w", err)
		}
		color.Green("✓ Logged %s x%g for %s (%s)", entry.FoodName, entry.Portions, entry.MealType, kcal(entry.Calories))
		return nil
	},
}

var logActivityCmd = &cobra.Command{
	Use:   "activity <activity-id> <minutes>",
	Short: "Log minutes of an activity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		minutes, err := parseNumber("minutes", args[1])
		if err != nil {
			return err
		}

		entry, err := book.LogActivity(user.ID, args[0], minutes, logDate)
		if err != nil {
			return fmt.Errorf("failed to log activity: %w", err)
		}
		color.Green("✓ Logged %s for %g min (%s burned)", entry.ActivityName, entry.DurationMinutes, kcal(entry.CaloriesBurned))
		return nil
	},
}

// normalizeMeal maps a case-insensitive meal name onto models.MealTypes.
func normalizeMeal(s string) (string, error) {
	if s == "" {
		return models.MealTypes[len(models.MealTypes)-1], nil
	}
	for _, m := range models.MealTypes {
		if strings.EqualFold(m, s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown meal: %s (use %s)", s, strings.Join(models.MealTypes, ", "))
}

func init() {
	logFoodCmd.Flags().StringVarP(&logMeal, "meal", "m", "", "meal type: Breakfast, Lunch, Dinner, Snacks (default Snacks)")
	logFoodCmd.Flags().StringVarP(&logDate, "date", "d", "", "day to log against (YYYY-MM-DD, default today)")
	logActivityCmd.Flags().StringVarP(&logDate, "date", "d", "", "day to log against (YYYY-MM-DD, default today)")

	logCmd.AddCommand(logFoodCmd)
	logCmd.AddCommand(logActivityCmd)
	rootCmd.AddCommand(logCmd)
}
