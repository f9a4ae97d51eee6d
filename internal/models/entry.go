// ABOUTME: FoodEntry and ActivityEntry models, the append-only rows of a daily log.
// ABOUTME: Entries embed an immutable snapshot of the catalog name and calories.
package models

import (
	"time"
)

// MealTypes lists the meal labels offered when logging food.
var MealTypes = []string{"Breakfast", "Lunch", "Dinner", "Snacks"}

// FoodSnapshot is the catalog data copied into an entry at log time.
// Later edits or deletes of the source Food never touch it.
type FoodSnapshot struct {
	FoodName string  `json:"food_name" yaml:"food_name"`
	Calories float64 `json:"calories" yaml:"calories"`
}

// FoodEntry records one logged food on a daily log.
type FoodEntry struct {
	ID           string  `json:"id" yaml:"id"`
	UserID       string  `json:"user_id" yaml:"user_id"`
	DailyLogID   string  `json:"daily_log_id" yaml:"daily_log_id"`
	FoodID       *string `json:"food_id" yaml:"food_id"`
	FoodSnapshot `yaml:",inline"`
	Portions     float64   `json:"portions" yaml:"portions"`
	MealType     string    `json:"meal_type" yaml:"meal_type"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// FoodEntryInput holds the caller-supplied fields of a new FoodEntry.
// Calories is the already-computed total for all portions.
type FoodEntryInput struct {
	FoodID   *string
	FoodName string
	Calories float64
	Portions float64
	MealType string
}

// Validate checks portions > 0 and calories >= 0.
func (in FoodEntryInput) Validate() error {
	if err := checkPositive("portions", in.Portions); err != nil {
		return err
	}
	return checkNonNegative("calories", in.Calories)
}

// NewFoodEntry creates an entry on dailyLogID from in.
func NewFoodEntry(userID, dailyLogID string, in FoodEntryInput, at time.Time) *FoodEntry {
	return &FoodEntry{
		ID:         NewID(),
		UserID:     userID,
		DailyLogID: dailyLogID,
		FoodID:     copyID(in.FoodID),
		FoodSnapshot: FoodSnapshot{
			FoodName: in.FoodName,
			Calories: in.Calories,
		},
		Portions:  in.Portions,
		MealType:  in.MealType,
		CreatedAt: at,
	}
}

// ActivitySnapshot is the catalog data copied into an entry at log time.
type ActivitySnapshot struct {
	ActivityName   string  `json:"activity_name" yaml:"activity_name"`
	CaloriesBurned float64 `json:"calories_burned" yaml:"calories_burned"`
}

// ActivityEntry records one logged activity on a daily log.
type ActivityEntry struct {
	ID               string  `json:"id" yaml:"id"`
	UserID           string  `json:"user_id" yaml:"user_id"`
	DailyLogID       string  `json:"daily_log_id" yaml:"daily_log_id"`
	ActivityID       *string `json:"activity_id" yaml:"activity_id"`
	ActivitySnapshot `yaml:",inline"`
	DurationMinutes  float64   `json:"duration_minutes" yaml:"duration_minutes"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
}

// ActivityEntryInput holds the caller-supplied fields of a new ActivityEntry.
type ActivityEntryInput struct {
	ActivityID      *string
	ActivityName    string
	CaloriesBurned  float64
	DurationMinutes float64
}

// Validate checks duration > 0 and calories burned >= 0.
func (in ActivityEntryInput) Validate() error {
	if err := checkPositive("duration_minutes", in.DurationMinutes); err != nil {
		return err
	}
	return checkNonNegative("calories_burned", in.CaloriesBurned)
}

// NewActivityEntry creates an entry on dailyLogID from in.
func NewActivityEntry(userID, dailyLogID string, in ActivityEntryInput, at time.Time) *ActivityEntry {
	return &ActivityEntry{
		ID:         NewID(),
		UserID:     userID,
		DailyLogID: dailyLogID,
		ActivityID: copyID(in.ActivityID),
		ActivitySnapshot: ActivitySnapshot{
			ActivityName:   in.ActivityName,
			CaloriesBurned: in.CaloriesBurned,
		},
		DurationMinutes: in.DurationMinutes,
		CreatedAt:       at,
	}
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
