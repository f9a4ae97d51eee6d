// ABOUTME: MCP tool implementations for the calorie ledger.
// ABOUTME: Provides catalog CRUD, logging, daily views, and goal setting.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/calories/internal/ledger"
	"github.com/harperreed/calories/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// Food catalog
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_foods",
		Description: "List foods in your catalog, newest first",
	}, s.handleListFoods)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_food",
		Description: "Add a food with its calories per serving to your catalog",
	}, s.handleAddFood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_food",
		Description: "Change fields of a catalog food; logged entries keep their original values",
	}, s.handleUpdateFood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_food",
		Description: "Delete a catalog food by ID or ID prefix",
	}, s.handleDeleteFood)

	// Activity catalog
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_activities",
		Description: "List activities in your catalog, newest first",
	}, s.handleListActivities)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_activity",
		Description: "Add an activity with its calories burned per minute",
	}, s.handleAddActivity)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_activity",
		Description: "Change fields of a catalog activity",
	}, s.handleUpdateActivity)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_activity",
		Description: "Delete a catalog activity by ID or ID prefix",
	}, s.handleDeleteActivity)

	// Daily log
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_food",
		Description: "Log portions of a catalog food to a day (defaults to today)",
	}, s.handleLogFood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_activity",
		Description: "Log minutes of a catalog activity to a day (defaults to today)",
	}, s.handleLogActivity)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_day",
		Description: "Get a day's entries grouped by meal, with totals against your goal",
	}, s.handleGetDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get consumed, burned, net, and remaining calories for a day",
	}, s.handleGetSummary)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_goal",
		Description: "Set your daily calorie goal",
	}, s.handleSetGoal)
}

// Tool input/output types

type emptyInput struct{}

type simpleOutput struct {
	Message string `json:"message"`
}

type foodsOutput struct {
	Foods []*models.Food `json:"foods"`
	Count int            `json:"count"`
}

type addFoodInput struct {
	Name               string  `json:"name" jsonschema:"Food name"`
	CaloriesPerServing float64 `json:"calories_per_serving" jsonschema:"Calories in one serving"`
	ServingSize        string  `json:"serving_size,omitempty" jsonschema:"Serving description such as 1 cup (default serving)"`
	Category           string  `json:"category,omitempty" jsonschema:"One of Breakfast, Lunch, Dinner, Snacks, Beverages, Other (default Breakfast)"`
}

type foodOutput struct {
	Food    *models.Food `json:"food"`
	Message string       `json:"message"`
}

type updateFoodInput struct {
	ID                 string   `json:"id" jsonschema:"Food ID or prefix"`
	Name               *string  `json:"name,omitempty" jsonschema:"New name"`
	CaloriesPerServing *float64 `json:"calories_per_serving,omitempty" jsonschema:"New calories per serving"`
	ServingSize        *string  `json:"serving_size,omitempty" jsonschema:"New serving description"`
	Category           *string  `json:"category,omitempty" jsonschema:"New category"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Record ID or prefix"`
}

type activitiesOutput struct {
	Activities []*models.Activity `json:"activities"`
	Count      int                `json:"count"`
}

type addActivityInput struct {
	Name              string  `json:"name" jsonschema:"Activity name"`
	CaloriesPerMinute float64 `json:"calories_per_minute" jsonschema:"Calories burned per minute"`
}

type activityOutput struct {
	Activity *models.Activity `json:"activity"`
	Message  string           `json:"message"`
}

type updateActivityInput struct {
	ID                string   `json:"id" jsonschema:"Activity ID or prefix"`
	Name              *string  `json:"name,omitempty" jsonschema:"New name"`
	CaloriesPerMinute *float64 `json:"calories_per_minute,omitempty" jsonschema:"New calories per minute"`
}

type logFoodInput struct {
	FoodID   string  `json:"food_id" jsonschema:"Food ID or prefix"`
	Portions float64 `json:"portions" jsonschema:"Number of servings eaten"`
	MealType string  `json:"meal_type,omitempty" jsonschema:"Breakfast, Lunch, Dinner, or Snacks (default Snacks)"`
	Date     string  `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
}

type foodEntryOutput struct {
	Entry   *models.FoodEntry `json:"entry"`
	Message string            `json:"message"`
}

type logActivityInput struct {
	ActivityID      string  `json:"activity_id" jsonschema:"Activity ID or prefix"`
	DurationMinutes float64 `json:"duration_minutes" jsonschema:"Minutes spent"`
	Date            string  `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
}

type activityEntryOutput struct {
	Entry   *models.ActivityEntry `json:"entry"`
	Message string                `json:"message"`
}

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
}

type setGoalInput struct {
	DailyCalorieGoal int `json:"daily_calorie_goal" jsonschema:"Target calories per day"`
}

type goalOutput struct {
	Profile *models.Profile `json:"profile"`
	Message string          `json:"message"`
}

// Tool handlers

func (s *Server) handleListFoods(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, foodsOutput, error) {
	foods, err := s.repo.ListFoods(s.user.ID)
	if err != nil {
		return nil, foodsOutput{}, fmt.Errorf("failed to list foods: %w", err)
	}
	if foods == nil {
		foods = []*models.Food{}
	}
	return nil, foodsOutput{Foods: foods, Count: len(foods)}, nil
}

func (s *Server) handleAddFood(ctx context.Context, req *mcp.CallToolRequest, input addFoodInput) (*mcp.CallToolResult, foodOutput, error) {
	if input.Name == "" {
		return nil, foodOutput{}, fmt.Errorf("name is required")
	}
	if input.Category != "" && !models.IsKnownCategory(input.Category) {
		return nil, foodOutput{}, fmt.Errorf("unknown category: %s", input.Category)
	}

	food, err := s.repo.AddFood(s.user.ID, models.FoodInput{
		Name:               input.Name,
		CaloriesPerServing: input.CaloriesPerServing,
		ServingSize:        input.ServingSize,
		Category:           input.Category,
	})
	if err != nil {
		return nil, foodOutput{}, fmt.Errorf("failed to add food: %w", err)
	}

	return nil, foodOutput{
		Food:    food,
		Message: fmt.Sprintf("Added %s: %g kcal per %s (ID: %s)", food.Name, food.CaloriesPerServing, food.ServingSize, shortID(food.ID)),
	}, nil
}

func (s *Server) handleUpdateFood(ctx context.Context, req *mcp.CallToolRequest, input updateFoodInput) (*mcp.CallToolResult, foodOutput, error) {
	food, err := s.ledger.ResolveFood(s.user.ID, input.ID)
	if err != nil {
		return nil, foodOutput{}, err
	}

	err = s.repo.UpdateFood(food.ID, models.FoodUpdate{
		Name:               input.Name,
		CaloriesPerServing: input.CaloriesPerServing,
		ServingSize:        input.ServingSize,
		Category:           input.Category,
	})
	if err != nil {
		return nil, foodOutput{}, fmt.Errorf("failed to update food: %w", err)
	}

	updated, err := s.repo.GetFood(food.ID)
	if err != nil {
		return nil, foodOutput{}, fmt.Errorf("failed to reload food: %w", err)
	}
	return nil, foodOutput{
		Food:    updated,
		Message: fmt.Sprintf("Updated food %s", shortID(food.ID)),
	}, nil
}

func (s *Server) handleDeleteFood(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	food, err := s.ledger.ResolveFood(s.user.ID, input.ID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.DeleteFood(food.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete food: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted food: %s (%s)", food.Name, shortID(food.ID)),
	}, nil
}

func (s *Server) handleListActivities(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, activitiesOutput, error) {
	activities, err := s.repo.ListActivities(s.user.ID)
	if err != nil {
		return nil, activitiesOutput{}, fmt.Errorf("failed to list activities: %w", err)
	}
	if activities == nil {
		activities = []*models.Activity{}
	}
	return nil, activitiesOutput{Activities: activities, Count: len(activities)}, nil
}

func (s *Server) handleAddActivity(ctx context.Context, req *mcp.CallToolRequest, input addActivityInput) (*mcp.CallToolResult, activityOutput, error) {
	if input.Name == "" {
		return nil, activityOutput{}, fmt.Errorf("name is required")
	}

	activity, err := s.repo.AddActivity(s.user.ID, models.ActivityInput{
		Name:              input.Name,
		CaloriesPerMinute: input.CaloriesPerMinute,
	})
	if err != nil {
		return nil, activityOutput{}, fmt.Errorf("failed to add activity: %w", err)
	}

	return nil, activityOutput{
		Activity: activity,
		Message:  fmt.Sprintf("Added %s: %g kcal/min (ID: %s)", activity.Name, activity.CaloriesPerMinute, shortID(activity.ID)),
	}, nil
}

func (s *Server) handleUpdateActivity(ctx context.Context, req *mcp.CallToolRequest, input updateActivityInput) (*mcp.CallToolResult, activityOutput, error) {
	activity, err := s.ledger.ResolveActivity(s.user.ID, input.ID)
	if err != nil {
		return nil, activityOutput{}, err
	}

	err = s.repo.UpdateActivity(activity.ID, models.ActivityUpdate{
		Name:              input.Name,
		CaloriesPerMinute: input.CaloriesPerMinute,
	})
	if err != nil {
		return nil, activityOutput{}, fmt.Errorf("failed to update activity: %w", err)
	}

	updated, err := s.repo.GetActivity(activity.ID)
	if err != nil {
		return nil, activityOutput{}, fmt.Errorf("failed to reload activity: %w", err)
	}
	return nil, activityOutput{
		Activity: updated,
		Message:  fmt.Sprintf("Updated activity %s", shortID(activity.ID)),
	}, nil
}

func (s *Server) handleDeleteActivity(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	activity, err := s.ledger.ResolveActivity(s.user.ID, input.ID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.DeleteActivity(activity.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted activity: %s (%s)", activity.Name, shortID(activity.ID)),
	}, nil
}

func (s *Server) handleLogFood(ctx context.Context, req *mcp.CallToolRequest, input logFoodInput) (*mcp.CallToolResult, foodEntryOutput, error) {
	meal := input.MealType
	if meal == "" {
		meal = DefaultMealType
	}

	entry, err := s.ledger.LogFood(s.user.ID, input.FoodID, input.Portions, meal, input.Date)
	if err != nil {
		return nil, foodEntryOutput{}, fmt.Errorf("failed to log food: %w", err)
	}

	return nil, foodEntryOutput{
		Entry:   entry,
		Message: fmt.Sprintf("Logged %g x %s (%.0f kcal) for %s", entry.Portions, entry.FoodName, entry.Calories, entry.MealType),
	}, nil
}

func (s *Server) handleLogActivity(ctx context.Context, req *mcp.CallToolRequest, input logActivityInput) (*mcp.CallToolResult, activityEntryOutput, error) {
	entry, err := s.ledger.LogActivity(s.user.ID, input.ActivityID, input.DurationMinutes, input.Date)
	if err != nil {
		return nil, activityEntryOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}

	return nil, activityEntryOutput{
		Entry:   entry,
		Message: fmt.Sprintf("Logged %g min of %s (%.0f kcal burned)", entry.DurationMinutes, entry.ActivityName, entry.CaloriesBurned),
	}, nil
}

func (s *Server) handleGetDay(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, *ledger.Day, error) {
	day, err := s.ledger.Day(s.user.ID, input.Date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get day: %w", err)
	}
	return nil, day, nil
}

func (s *Server) handleGetSummary(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, *ledger.Summary, error) {
	summary, err := s.ledger.Summary(s.user.ID, input.Date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return nil, summary, nil
}

func (s *Server) handleSetGoal(ctx context.Context, req *mcp.CallToolRequest, input setGoalInput) (*mcp.CallToolResult, goalOutput, error) {
	profile, err := s.repo.UpsertProfile(s.user.ID, input.DailyCalorieGoal)
	if err != nil {
		return nil, goalOutput{}, fmt.Errorf("failed to set goal: %w", err)
	}
	return nil, goalOutput{
		Profile: profile,
		Message: fmt.Sprintf("Daily goal set to %d kcal", profile.DailyCalorieGoal),
	}, nil
}

// DefaultMealType is used when log_food omits meal_type.
const DefaultMealType = "Snacks"

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
