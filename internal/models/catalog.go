// ABOUTME: Food and Activity catalog models with inputs and partial updates.
// ABOUTME: Catalog records are user-curated sources for log entries.
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DefaultServingSize  = "serving"
	DefaultFoodCategory = "Breakfast"
)

// FoodCategories lists the category labels offered when adding a food.
var FoodCategories = []string{"Breakfast", "Lunch", "Dinner", "Snacks", "Beverages", "Other"}

// Food is a catalog item with a per-serving calorie value.
type Food struct {
	ID                 string    `json:"id" yaml:"id"`
	UserID             string    `json:"user_id" yaml:"user_id"`
	Name               string    `json:"name" yaml:"name"`
	CaloriesPerServing float64   `json:"calories_per_serving" yaml:"calories_per_serving"`
	ServingSize        string    `json:"serving_size" yaml:"serving_size"`
	Category           string    `json:"category" yaml:"category"`
	CreatedAt          time.Time `json:"created_at" yaml:"created_at"`
}

// FoodInput holds the caller-supplied fields of a new Food.
type FoodInput struct {
	Name               string
	CaloriesPerServing float64
	ServingSize        string
	Category           string
}

// Validate checks the numeric invariants of a food.
func (in FoodInput) Validate() error {
	return checkNonNegative("calories_per_serving", in.CaloriesPerServing)
}

// NewFood creates a Food owned by userID. Empty labels get defaults.
func NewFood(userID string, in FoodInput, at time.Time) *Food {
	f := &Food{
		ID:                 NewID(),
		UserID:             userID,
		Name:               in.Name,
		CaloriesPerServing: in.CaloriesPerServing,
		ServingSize:        in.ServingSize,
		Category:           in.Category,
		CreatedAt:          at,
	}
	if f.ServingSize == "" {
		f.ServingSize = DefaultServingSize
	}
	if f.Category == "" {
		f.Category = DefaultFoodCategory
	}
	return f
}

// FoodUpdate is a partial update; nil fields are left unchanged.
type FoodUpdate struct {
	Name               *string
	CaloriesPerServing *float64
	ServingSize        *string
	Category           *string
}

// Validate checks the fields that are set.
func (u FoodUpdate) Validate() error {
	if u.CaloriesPerServing != nil {
		return checkNonNegative("calories_per_serving", *u.CaloriesPerServing)
	}
	return nil
}

// Apply merges the set fields into f.
func (u FoodUpdate) Apply(f *Food) {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.CaloriesPerServing != nil {
		f.CaloriesPerServing = *u.CaloriesPerServing
	}
	if u.ServingSize != nil {
		f.ServingSize = *u.ServingSize
	}
	if u.Category != nil {
		f.Category = *u.Category
	}
}

// Activity is a catalog item with a per-minute burn rate.
type Activity struct {
	ID                string    `json:"id" yaml:"id"`
	UserID            string    `json:"user_id" yaml:"user_id"`
	Name              string    `json:"name" yaml:"name"`
	CaloriesPerMinute float64   `json:"calories_per_minute" yaml:"calories_per_minute"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
}

// ActivityInput holds the caller-supplied fields of a new Activity.
type ActivityInput struct {
	Name              string
	CaloriesPerMinute float64
}

// Validate checks the numeric invariants of an activity.
func (in ActivityInput) Validate() error {
	return checkNonNegative("calories_per_minute", in.CaloriesPerMinute)
}

// NewActivity creates an Activity owned by userID.
func NewActivity(userID string, in ActivityInput, at time.Time) *Activity {
	return &Activity{
		ID:                NewID(),
		UserID:            userID,
		Name:              in.Name,
		CaloriesPerMinute: in.CaloriesPerMinute,
		CreatedAt:         at,
	}
}

// ActivityUpdate is a partial update; nil fields are left unchanged.
type ActivityUpdate struct {
	Name              *string
	CaloriesPerMinute *float64
}

// Validate checks the fields that are set.
func (u ActivityUpdate) Validate() error {
	if u.CaloriesPerMinute != nil {
		return checkNonNegative("calories_per_minute", *u.CaloriesPerMinute)
	}
	return nil
}

// Apply merges the set fields into a.
func (u ActivityUpdate) Apply(a *Activity) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.CaloriesPerMinute != nil {
		a.CaloriesPerMinute = *u.CaloriesPerMinute
	}
}

// IsKnownCategory reports whether s is one of FoodCategories (case-insensitive).
func IsKnownCategory(s string) bool {
	for _, c := range FoodCategories {
		if strings.EqualFold(c, s) {
			return true
		}
	}
	return false
}

func checkNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number", field)
	}
	if v < 0 {
		return fmt.Errorf("%s must be >= 0, got %g", field, v)
	}
	return nil
}

func checkPositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number", field)
	}
	if v <= 0 {
		return fmt.Errorf("%s must be > 0, got %g", field, v)
	}
	return nil
}

var errEmptyDate = errors.New("date is required")
