// ABOUTME: User and Profile models for the calorie ledger.
// ABOUTME: Users are keyed by email; profiles hold the daily calorie goal.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDailyGoal is the goal used when a user has no profile yet.
const DefaultDailyGoal = 2000

// User is a stable identity resolved from an email address.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
}

// NewUser creates a User with a generated ID.
func NewUser(email string) *User {
	return &User{
		ID:    NewID(),
		Email: email,
	}
}

// Profile holds per-user settings. There is at most one per user.
type Profile struct {
	ID               string    `json:"id" yaml:"id"`
	UserID           string    `json:"user_id" yaml:"user_id"`
	DailyCalorieGoal int       `json:"daily_calorie_goal" yaml:"daily_calorie_goal"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewProfile creates a Profile for userID stamped with at.
func NewProfile(userID string, goal int, at time.Time) *Profile {
	return &Profile{
		ID:               NewID(),
		UserID:           userID,
		DailyCalorieGoal: goal,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
}

// GoalOrDefault returns the profile goal, or DefaultDailyGoal for a nil profile.
func (p *Profile) GoalOrDefault() int {
	if p == nil || p.DailyCalorieGoal <= 0 {
		return DefaultDailyGoal
	}
	return p.DailyCalorieGoal
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.New().String()
}
