// ABOUTME: CLI commands for the food catalog.
// ABOUTME: Supports add, list, edit, and delete of foods by ID prefix.
package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/harperreed/calories/internal/models"
	"github.com/spf13/cobra"
)

var (
	foodServing  string
	foodCategory string
	foodName     string
	foodCalories float64
)

var foodCmd = &cobra.Command{
	Use:     "food",
	Aliases: []string{"f"},
	Short:   "Manage the food catalog",
	Long: `Manage the foods you can log.

Each food has a name, calories per serving, a serving size label, and a
category (` + strings.Join(models.FoodCategories, ", ") + `).

IDs can be given as any unique prefix, like the 8 characters shown by
'calories food list'.`,
}

var foodAddCmd = &cobra.Command{
	Use:     "add <name> <calories>",
	Aliases: []string{"a"},
	Short:   "Add a food",
	Long: `Add a food to your catalog.

EXAMPLES:

  calories food add "Apple" 95
  calories food add "Oatmeal" 150 --serving "1 cup" --category Breakfast`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		cal, err := parseNumber("calories", args[1])
		if err != nil {
			return err
		}
		category, err := canonicalCategory(foodCategory)
		if err != nil {
			return err
		}

		food, err := repo.AddFood(user.ID, models.FoodInput{
			Name:               args[0],
			CaloriesPerServing: cal,
			ServingSize:        foodServing,
			Category:           category,
		})
		if err != nil {
			return fmt.Errorf("failed to add food: %w", err)
		}

		color.Green("✓ Added %s (%s per %s)", food.Name, kcal(food.CaloriesPerServing), food.ServingSize)
		fmt.Printf("  ID: %s\n", faint.Sprint(shortID(food.ID)))
		return nil
	},
}

var foodListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List foods",
	Long: `List your foods, newest first.

Each line shows: ID  NAME  CALORIES  SERVING  CATEGORY  ADDED`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		foods, err := repo.ListFoods(user.ID)
		if err != nil {
			return fmt.Errorf("failed to list foods: %w", err)
		}
		if len(foods) == 0 {
			fmt.Println("No foods yet. Add one with 'calories food add'.")
			return nil
		}

		for _, f := range foods {
			fmt.Printf("%s %s %s %s %s %s\n",
				faint.Sprint(shortID(f.ID)),
				padRight(truncate(f.Name, 24), 24),
				padRight(kcal(f.CaloriesPerServing), 12),
				padRight(truncate(f.ServingSize, 14), 14),
				padRight(f.Category, 10),
				faint.Sprint(humanize.Time(f.CreatedAt)))
		}
		return nil
	},
}

var foodEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a food",
	Long: `Change fields of a food. Only the flags you pass are changed.

Entries already logged keep the name and calories they were logged with.

EXAMPLES:

  calories food edit 3f2a --calories 110
  calories food edit 3f2a --name "Green Apple" --serving "1 medium"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		food, err := book.ResolveFood(user.ID, args[0])
		if err != nil {
			return err
		}

		var u models.FoodUpdate
		flags := cmd.Flags()
		if flags.Changed("name") {
			u.Name = &foodName
		}
		if flags.Changed("calories") {
			u.CaloriesPerServing = &foodCalories
		}
		if flags.Changed("serving") {
			u.ServingSize = &foodServing
		}
		if flags.Changed("category") {
			category, err := canonicalCategory(foodCategory)
			if err != nil {
				return err
			}
			u.Category = &category
		}

		if err := repo.UpdateFood(food.ID, u); err != nil {
			return fmt.Errorf("failed to update food: %w", err)
		}
		color.Green("✓ Updated %s", faint.Sprint(shortID(food.ID)))
		return nil
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a food",
	Long: `Delete a food from your catalog.

Entries already logged are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		food, err := book.ResolveFood(user.ID, args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteFood(food.ID); err != nil {
			return fmt.Errorf("failed to delete food: %w", err)
		}
		color.Green("✓ Deleted %s", food.Name)
		return nil
	},
}

// canonicalCategory maps a case-insensitive category onto models.FoodCategories.
func canonicalCategory(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	for _, c := range models.FoodCategories {
		if strings.EqualFold(c, s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %s (use %s)", s, strings.Join(models.FoodCategories, ", "))
}

func init() {
	foodAddCmd.Flags().StringVarP(&foodServing, "serving", "s", "", "serving size label (default \"serving\")")
	foodAddCmd.Flags().StringVarP(&foodCategory, "category", "c", "", "category (default Breakfast)")

	foodEditCmd.Flags().StringVar(&foodName, "name", "", "new name")
	foodEditCmd.Flags().Float64Var(&foodCalories, "calories", 0, "new calories per serving")
	foodEditCmd.Flags().StringVarP(&foodServing, "serving", "s", "", "new serving size label")
	foodEditCmd.Flags().StringVarP(&foodCategory, "category", "c", "", "new category")

	foodCmd.AddCommand(foodAddCmd)
	foodCmd.AddCommand(foodListCmd)
	foodCmd.AddCommand(foodEditCmd)
	foodCmd.AddCommand(foodDeleteCmd)
	rootCmd.AddCommand(foodCmd)
}
