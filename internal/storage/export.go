// ABOUTME: Export functionality for a user's calorie ledger.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/calories/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for one user's ledger.
type ExportData struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Tool       string             `json:"tool" yaml:"tool"`
	User       *models.User       `json:"user" yaml:"user"`
	Profile    *models.Profile    `json:"profile" yaml:"profile"`
	Foods      []*models.Food     `json:"foods" yaml:"foods"`
	Activities []*models.Activity `json:"activities" yaml:"activities"`
	Days       []*ExportDay       `json:"days" yaml:"days"`
}

// ExportDay is one daily log with its entries.
type ExportDay struct {
	Log             *models.DailyLog        `json:"log" yaml:"log"`
	FoodEntries     []*models.FoodEntry     `json:"food_entries" yaml:"food_entries"`
	ActivityEntries []*models.ActivityEntry `json:"activity_entries" yaml:"activity_entries"`
}

// GetAllData retrieves everything owned by userID in one consistent read.
// Days are ordered most recent first.
func (s *Store) GetAllData(userID string) (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: s.stamp(),
		Tool:       "calories",
		Foods:      []*models.Food{},
		Activities: []*models.Activity{},
		Days:       []*ExportDay{},
	}

	err := s.view(func(snap *Snapshot) error {
		for _, u := range snap.Users {
			if u.ID == userID {
				data.User = u
				break
			}
		}
		data.Profile = findProfile(snap, userID)

		for _, f := range snap.Foods {
			if f.UserID == userID {
				data.Foods = append(data.Foods, f)
			}
		}
		for _, a := range snap.Activities {
			if a.UserID == userID {
				data.Activities = append(data.Activities, a)
			}
		}
		for _, l := range snap.DailyLogs {
			if l.UserID != userID {
				continue
			}
			data.Days = append(data.Days, &ExportDay{
				Log:             l,
				FoodEntries:     nonNil(foodEntriesFor(snap, l.ID)),
				ActivityEntries: nonNil(activityEntriesFor(snap, l.ID)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect export data: %w", err)
	}

	sortDaysNewestFirst(data.Days)
	return data, nil
}

// ImportJSON decodes a JSON export and merges it into userID's ledger.
func (s *Store) ImportJSON(userID string, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return invalid(fmt.Errorf("unmarshal JSON: %w", err))
	}
	return s.ImportData(userID, &exportData)
}

// ImportData merges an export into userID's ledger in a single save. Every
// imported record is rebound to userID. A record whose id is already stored,
// or a day the user already has a log for, fails the whole import and
// nothing is written.
func (s *Store) ImportData(userID string, data *ExportData) error {
	if data == nil {
		return invalid(errors.New("empty import"))
	}

	return s.update(func(snap *Snapshot) (bool, error) {
		seen := storedIDs(snap)
		claim := func(kind, id string) error {
			if id == "" {
				return invalid(fmt.Errorf("%s without id", kind))
			}
			if _, ok := seen[id]; ok {
				return invalid(fmt.Errorf("duplicate %s id %s", kind, id))
			}
			seen[id] = struct{}{}
			return nil
		}

		if p := data.Profile; p != nil && findProfile(snap, userID) == nil {
			if err := claim("profile", p.ID); err != nil {
				return false, err
			}
			if p.DailyCalorieGoal <= 0 {
				return false, invalid(fmt.Errorf("profile goal must be positive, got %d", p.DailyCalorieGoal))
			}
			p.UserID = userID
			snap.Profiles = append(snap.Profiles, p)
		}

		for _, f := range data.Foods {
			if err := claim("food", f.ID); err != nil {
				return false, err
			}
			in := models.FoodInput{Name: f.Name, CaloriesPerServing: f.CaloriesPerServing}
			if err := in.Validate(); err != nil {
				return false, invalid(fmt.Errorf("import food %s: %w", f.ID, err))
			}
			f.UserID = userID
			snap.Foods = append(snap.Foods, f)
		}

		for _, a := range data.Activities {
			if err := claim("activity", a.ID); err != nil {
				return false, err
			}
			in := models.ActivityInput{Name: a.Name, CaloriesPerMinute: a.CaloriesPerMinute}
			if err := in.Validate(); err != nil {
				return false, invalid(fmt.Errorf("import activity %s: %w", a.ID, err))
			}
			a.UserID = userID
			snap.Activities = append(snap.Activities, a)
		}

		for _, day := range data.Days {
			if err := importDay(snap, userID, day, claim); err != nil {
				return false, err
			}
		}

		return true, nil
	})
}

// importDay appends one exported day. Entries are attached to the day's log
// and the log totals are recomputed from them.
func importDay(snap *Snapshot, userID string, day *ExportDay, claim func(kind, id string) error) error {
	if day == nil || day.Log == nil {
		return invalid(errors.New("day without log"))
	}
	l := day.Log
	if err := claim("daily log", l.ID); err != nil {
		return err
	}
	if err := models.ValidateDate(l.Date); err != nil {
		return invalid(err)
	}
	if findDailyLogByDate(snap, userID, l.Date) != nil {
		return invalid(fmt.Errorf("daily log for %s already exists", l.Date))
	}

	l.UserID = userID
	l.TotalCaloriesConsumed = 0
	l.TotalCaloriesBurned = 0

	for _, e := range day.FoodEntries {
		if err := claim("food entry", e.ID); err != nil {
			return err
		}
		in := models.FoodEntryInput{Calories: e.Calories, Portions: e.Portions}
		if err := in.Validate(); err != nil {
			return invalid(fmt.Errorf("import food entry %s: %w", e.ID, err))
		}
		e.UserID = userID
		e.DailyLogID = l.ID
		l.TotalCaloriesConsumed += e.Calories
		snap.FoodEntries = append(snap.FoodEntries, e)
	}

	for _, e := range day.ActivityEntries {
		if err := claim("activity entry", e.ID); err != nil {
			return err
		}
		in := models.ActivityEntryInput{CaloriesBurned: e.CaloriesBurned, DurationMinutes: e.DurationMinutes}
		if err := in.Validate(); err != nil {
			return invalid(fmt.Errorf("import activity entry %s: %w", e.ID, err))
		}
		e.UserID = userID
		e.DailyLogID = l.ID
		l.TotalCaloriesBurned += e.CaloriesBurned
		snap.ActivityEntries = append(snap.ActivityEntries, e)
	}

	snap.DailyLogs = append(snap.DailyLogs, l)
	return nil
}

func storedIDs(snap *Snapshot) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, p := range snap.Profiles {
		ids[p.ID] = struct{}{}
	}
	for _, f := range snap.Foods {
		ids[f.ID] = struct{}{}
	}
	for _, a := range snap.Activities {
		ids[a.ID] = struct{}{}
	}
	for _, l := range snap.DailyLogs {
		ids[l.ID] = struct{}{}
	}
	for _, e := range snap.FoodEntries {
		ids[e.ID] = struct{}{}
	}
	for _, e := range snap.ActivityEntries {
		ids[e.ID] = struct{}{}
	}
	return ids
}

// ExportJSON exports the user's ledger as indented JSON.
func (s *Store) ExportJSON(userID string) ([]byte, error) {
	data, err := s.GetAllData(userID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports the user's ledger as YAML.
func (s *Store) ExportYAML(userID string) ([]byte, error) {
	data, err := s.GetAllData(userID)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown renders one table per day. When since is non-empty only
// days on or after that date are included.
func (s *Store) ExportMarkdown(userID, since string) (string, error) {
	if since != "" {
		if err := models.ValidateDate(since); err != nil {
			return "", invalid(err)
		}
	}

	data, err := s.GetAllData(userID)
	if err != nil {
		return "", err
	}
	goal := data.Profile.GoalOrDefault()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Calorie Export - %s\n\n", models.FormatDate(data.ExportedAt)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", data.ExportedAt.Format(time.RFC3339)))
	if data.User != nil {
		sb.WriteString(fmt.Sprintf("User: %s\n\n", data.User.Email))
	}
	sb.WriteString(fmt.Sprintf("Daily goal: %d kcal\n\n", goal))

	for _, day := range data.Days {
		if since != "" && day.Log.Date < since {
			continue
		}
		writeMarkdownDay(&sb, day)
	}

	return sb.String(), nil
}

func writeMarkdownDay(sb *strings.Builder, day *ExportDay) {
	l := day.Log
	sb.WriteString(fmt.Sprintf("## %s\n\n", l.Date))
	sb.WriteString(fmt.Sprintf("Consumed %.0f kcal, burned %.0f kcal, net %.0f kcal\n\n",
		l.TotalCaloriesConsumed, l.TotalCaloriesBurned, l.NetCalories()))

	if len(day.FoodEntries) > 0 {
		sb.WriteString("| Time | Meal | Food | Portions | Calories |\n")
		sb.WriteString("|------|------|------|----------|----------|\n")
		for _, e := range day.FoodEntries {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %g | %.0f |\n",
				e.CreatedAt.Format("15:04"), e.MealType, e.FoodName, e.Portions, e.Calories))
		}
		sb.WriteString("\n")
	}

	if len(day.ActivityEntries) > 0 {
		sb.WriteString("| Time | Activity | Duration | Burned |\n")
		sb.WriteString("|------|----------|----------|--------|\n")
		for _, e := range day.ActivityEntries {
			sb.WriteString(fmt.Sprintf("| %s | %s | %g min | %.0f |\n",
				e.CreatedAt.Format("15:04"), e.ActivityName, e.DurationMinutes, e.CaloriesBurned))
		}
		sb.WriteString("\n")
	}
}

func sortDaysNewestFirst(days []*ExportDay) {
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Log.Date > days[j].Log.Date
	})
}

func nonNil[T any](in []*T) []*T {
	if in == nil {
		return []*T{}
	}
	return in
}
