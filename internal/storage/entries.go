// ABOUTME: Append-only food and activity entries with incremental log totals.
// ABOUTME: Each add writes the entry and the bumped parent log in one save.
package storage

import (
	"fmt"
	"time"

	"github.com/harperreed/calories/internal/models"
)

// AddFoodEntry appends an entry to dailyLogID and adds its calories to the
// log's consumed total.
func (s *Store) AddFoodEntry(userID, dailyLogID string, in models.FoodEntryInput) (*models.FoodEntry, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	var entry *models.FoodEntry
	err := s.update(func(snap *Snapshot) (bool, error) {
		log := findDailyLog(snap, dailyLogID)
		if log == nil {
			return false, fmt.Errorf("%w: %s", ErrDailyLogNotFound, dailyLogID)
		}
		at := s.stamp()
		entry = models.NewFoodEntry(userID, dailyLogID, in, at)
		snap.FoodEntries = append(snap.FoodEntries, entry)
		log.TotalCaloriesConsumed += entry.Calories
		log.UpdatedAt = at
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// AddActivityEntry appends an entry to dailyLogID and adds its calories to
// the log's burned total.
func (s *Store) AddActivityEntry(userID, dailyLogID string, in models.ActivityEntryInput) (*models.ActivityEntry, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	var entry *models.ActivityEntry
	err := s.update(func(snap *Snapshot) (bool, error) {
		log := findDailyLog(snap, dailyLogID)
		if log == nil {
			return false, fmt.Errorf("%w: %s", ErrDailyLogNotFound, dailyLogID)
		}
		at := s.stamp()
		entry = models.NewActivityEntry(userID, dailyLogID, in, at)
		snap.ActivityEntries = append(snap.ActivityEntries, entry)
		log.TotalCaloriesBurned += entry.CaloriesBurned
		log.UpdatedAt = at
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListFoodEntriesByLog returns the log's food entries, oldest first.
func (s *Store) ListFoodEntriesByLog(logID string) ([]*models.FoodEntry, error) {
	var entries []*models.FoodEntry
	err := s.view(func(snap *Snapshot) error {
		entries = foodEntriesFor(snap, logID)
		return nil
	})
	return entries, err
}

// ListActivityEntriesByLog returns the log's activity entries, oldest first.
func (s *Store) ListActivityEntriesByLog(logID string) ([]*models.ActivityEntry, error) {
	var entries []*models.ActivityEntry
	err := s.view(func(snap *Snapshot) error {
		entries = activityEntriesFor(snap, logID)
		return nil
	})
	return entries, err
}

func foodEntriesFor(snap *Snapshot, logID string) []*models.FoodEntry {
	var matched []*models.FoodEntry
	for _, e := range snap.FoodEntries {
		if e.DailyLogID == logID {
			matched = append(matched, e)
		}
	}
	return oldestFirst(matched, func(e *models.FoodEntry) time.Time { return e.CreatedAt })
}

func activityEntriesFor(snap *Snapshot, logID string) []*models.ActivityEntry {
	var matched []*models.ActivityEntry
	for _, e := range snap.ActivityEntries {
		if e.DailyLogID == logID {
			matched = append(matched, e)
		}
	}
	return oldestFirst(matched, func(e *models.ActivityEntry) time.Time { return e.CreatedAt })
}
