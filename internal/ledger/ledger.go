// ABOUTME: Ledger service computing entry calories and daily summaries.
// ABOUTME: Shared by the CLI and the MCP server on top of storage.Repository.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/harperreed/calories/internal/models"
	"github.com/harperreed/calories/internal/storage"
)

var (
	// ErrFoodNotFound means a log request named an unknown catalog food.
	ErrFoodNotFound = errors.New("food not found")

	// ErrActivityNotFound means a log request named an unknown catalog activity.
	ErrActivityNotFound = errors.New("activity not found")

	// ErrAmbiguousID means an ID prefix matched more than one record.
	ErrAmbiguousID = errors.New("ambiguous id prefix")
)

// Ledger turns catalog lookups into daily log entries.
type Ledger struct {
	repo storage.Repository
	now  func() time.Time
}

// New returns a Ledger over repo. A nil clock uses time.Now.
func New(repo storage.Repository, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{repo: repo, now: now}
}

// Today is the local calendar date.
func (l *Ledger) Today() string {
	return models.FormatDate(l.now())
}

// resolveDate defaults an empty date to today.
func (l *Ledger) resolveDate(date string) string {
	if date == "" {
		return l.Today()
	}
	return date
}

// ResolveFood finds the user's food by full ID or unique ID prefix.
func (l *Ledger) ResolveFood(userID, idOrPrefix string) (*models.Food, error) {
	foods, err := l.repo.ListFoods(userID)
	if err != nil {
		return nil, err
	}
	return resolve(foods, idOrPrefix, func(f *models.Food) string { return f.ID }, ErrFoodNotFound)
}

// ResolveActivity finds the user's activity by full ID or unique ID prefix.
func (l *Ledger) ResolveActivity(userID, idOrPrefix string) (*models.Activity, error) {
	activities, err := l.repo.ListActivities(userID)
	if err != nil {
		return nil, err
	}
	return resolve(activities, idOrPrefix, func(a *models.Activity) string { return a.ID }, ErrActivityNotFound)
}

func resolve[T any](items []*T, idOrPrefix string, id func(*T) string, notFound error) (*T, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", notFound)
	}
	var match *T
	for _, it := range items {
		if id(it) == idOrPrefix {
			return it, nil
		}
		if strings.HasPrefix(id(it), idOrPrefix) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, idOrPrefix)
			}
			match = it
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", notFound, idOrPrefix)
	}
	return match, nil
}

// LogFood records portions of a catalog food on date. foodID may be a
// unique prefix. An empty date means today.
func (l *Ledger) LogFood(userID, foodID string, portions float64, mealType, date string) (*models.FoodEntry, error) {
	food, err := l.ResolveFood(userID, foodID)
	if err != nil {
		return nil, err
	}

	in := models.FoodEntryInput{
		FoodID:   &food.ID,
		FoodName: food.Name,
		Calories: food.CaloriesPerServing * portions,
		Portions: portions,
		MealType: mealType,
	}
	// Reject bad portions before a log is created for the day.
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	log, err := l.repo.GetOrCreateDailyLog(userID, l.resolveDate(date))
	if err != nil {
		return nil, err
	}
	return l.repo.AddFoodEntry(userID, log.ID, in)
}

// LogActivity records minutes of a catalog activity on date. activityID
// may be a unique prefix. An empty date means today.
func (l *Ledger) LogActivity(userID, activityID string, minutes float64, date string) (*models.ActivityEntry, error) {
	activity, err := l.ResolveActivity(userID, activityID)
	if err != nil {
		return nil, err
	}

	in := models.ActivityEntryInput{
		ActivityID:      &activity.ID,
		ActivityName:    activity.Name,
		CaloriesBurned:  activity.CaloriesPerMinute * minutes,
		DurationMinutes: minutes,
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	log, err := l.repo.GetOrCreateDailyLog(userID, l.resolveDate(date))
	if err != nil {
		return nil, err
	}
	return l.repo.AddActivityEntry(userID, log.ID, in)
}

// Summary is the goal-relative view of one day.
type Summary struct {
	Date      string  `json:"date"`
	Goal      int     `json:"goal"`
	Consumed  float64 `json:"consumed"`
	Burned    float64 `json:"burned"`
	Net       float64 `json:"net"`
	Remaining float64 `json:"remaining"`
	Progress  float64 `json:"progress_percent"`
}

// Summary computes the day's totals against the user's goal. It never
// creates a daily log.
func (l *Ledger) Summary(userID, date string) (*Summary, error) {
	date = l.resolveDate(date)
	profile, err := l.repo.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	log, err := l.repo.FindDailyLog(userID, date)
	if err != nil {
		return nil, err
	}
	return summarize(date, profile.GoalOrDefault(), log), nil
}

func summarize(date string, goal int, log *models.DailyLog) *Summary {
	s := &Summary{Date: date, Goal: goal}
	if log != nil {
		s.Consumed = log.TotalCaloriesConsumed
		s.Burned = log.TotalCaloriesBurned
	}
	s.Net = s.Consumed - s.Burned
	s.Remaining = float64(goal) - s.Net
	if goal > 0 {
		s.Progress = math.Min(100, math.Max(0, s.Net/float64(goal)*100))
	}
	return s
}

// MealGroup is the food entries of one meal type.
type MealGroup struct {
	MealType string              `json:"meal_type"`
	Calories float64             `json:"calories"`
	Entries  []*models.FoodEntry `json:"entries"`
}

// Day is the full view of one calendar day.
type Day struct {
	Summary    *Summary                `json:"summary"`
	Log        *models.DailyLog        `json:"log,omitempty"`
	Meals      []*MealGroup            `json:"meals"`
	Activities []*models.ActivityEntry `json:"activities"`
}

// Day returns the day's summary, food entries grouped by meal type in
// order of first appearance, and activity entries. It never creates a log.
func (l *Ledger) Day(userID, date string) (*Day, error) {
	date = l.resolveDate(date)
	profile, err := l.repo.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	log, err := l.repo.FindDailyLog(userID, date)
	if err != nil {
		return nil, err
	}

	day := &Day{
		Summary:    summarize(date, profile.GoalOrDefault(), log),
		Log:        log,
		Meals:      []*MealGroup{},
		Activities: []*models.ActivityEntry{},
	}
	if log == nil {
		return day, nil
	}

	foods, err := l.repo.ListFoodEntriesByLog(log.ID)
	if err != nil {
		return nil, err
	}
	day.Meals = groupByMeal(foods)

	activities, err := l.repo.ListActivityEntriesByLog(log.ID)
	if err != nil {
		return nil, err
	}
	if activities != nil {
		day.Activities = activities
	}
	return day, nil
}

func groupByMeal(entries []*models.FoodEntry) []*MealGroup {
	groups := []*MealGroup{}
	byType := make(map[string]*MealGroup)
	for _, e := range entries {
		g, ok := byType[e.MealType]
		if !ok {
			g = &MealGroup{MealType: e.MealType}
			byType[e.MealType] = g
			groups = append(groups, g)
		}
		g.Entries = append(g.Entries, e)
		g.Calories += e.Calories
	}
	return groups
}
