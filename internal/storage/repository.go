// ABOUTME: Repository interface for the calorie ledger.
// ABOUTME: Defines the identity, catalog, daily log, entry, and profile operations.
package storage

import (
	"github.com/harperreed/calories/internal/models"
)

// Repository defines the storage interface consumed by the CLI and MCP server.
// Lookups that find nothing return (nil, nil); update and delete of an
// unknown id are silent no-ops.
type Repository interface {
	// Identity
	EnsureUser(email string) (*models.User, error)

	// Profile operations
	GetProfile(userID string) (*models.Profile, error)
	UpsertProfile(userID string, dailyGoal int) (*models.Profile, error)

	// Food catalog operations
	ListFoods(userID string) ([]*models.Food, error)
	GetFood(id string) (*models.Food, error)
	AddFood(userID string, in models.FoodInput) (*models.Food, error)
	UpdateFood(id string, u models.FoodUpdate) error
	DeleteFood(id string) error

	// Activity catalog operations
	ListActivities(userID string) ([]*models.Activity, error)
	GetActivity(id string) (*models.Activity, error)
	AddActivity(userID string, in models.ActivityInput) (*models.Activity, error)
	UpdateActivity(id string, u models.ActivityUpdate) error
	DeleteActivity(id string) error

	// Daily log operations
	GetOrCreateDailyLog(userID, date string) (*models.DailyLog, error)
	FindDailyLog(userID, date string) (*models.DailyLog, error)
	GetDailyLog(id string) (*models.DailyLog, error)
	ListDailyLogs(userID string) ([]*models.DailyLog, error)

	// Entry operations
	AddFoodEntry(userID, dailyLogID string, in models.FoodEntryInput) (*models.FoodEntry, error)
	AddActivityEntry(userID, dailyLogID string, in models.ActivityEntryInput) (*models.ActivityEntry, error)
	ListFoodEntriesByLog(logID string) ([]*models.FoodEntry, error)
	ListActivityEntriesByLog(logID string) ([]*models.ActivityEntry, error)

	// Export
	GetAllData(userID string) (*ExportData, error)

	// Lifecycle
	Close() error
}
