// ABOUTME: DailyLog model holding per-user per-day running calorie totals.
// ABOUTME: Also defines the calendar date format used as part of its natural key.
package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format of DailyLog.Date.
const DateLayout = "2006-01-02"

// DailyLog aggregates the entries of one user on one calendar day.
// Totals only ever grow: they are bumped as entries are appended.
type DailyLog struct {
	ID                    string    `json:"id" yaml:"id"`
	UserID                string    `json:"user_id" yaml:"user_id"`
	Date                  string    `json:"date" yaml:"date"`
	TotalCaloriesConsumed float64   `json:"total_calories_consumed" yaml:"total_calories_consumed"`
	TotalCaloriesBurned   float64   `json:"total_calories_burned" yaml:"total_calories_burned"`
	CreatedAt             time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewDailyLog creates an empty log for (userID, date).
func NewDailyLog(userID, date string, at time.Time) *DailyLog {
	return &DailyLog{
		ID:        NewID(),
		UserID:    userID,
		Date:      date,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// NetCalories is consumed minus burned.
func (l *DailyLog) NetCalories() float64 {
	return l.TotalCaloriesConsumed - l.TotalCaloriesBurned
}

// ValidateDate checks that s is a YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if s == "" {
		return errEmptyDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	// Reject non-canonical forms so the natural key stays unique.
	if t.Format(DateLayout) != s {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return nil
}

// FormatDate renders t as a calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
