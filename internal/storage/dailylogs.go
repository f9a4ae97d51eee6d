// ABOUTME: DailyLog lookups and lazy creation keyed by (user, date).
// ABOUTME: At most one log exists per user per calendar day.
package storage

import (
	"sort"

	"github.com/harperreed/calories/internal/models"
)

// GetOrCreateDailyLog returns the user's log for date, creating an empty
// one when none exists. The lookup and the create happen in one locked
// cycle, so two callers cannot both create a log for the same day.
func (s *Store) GetOrCreateDailyLog(userID, date string) (*models.DailyLog, error) {
	if err := models.ValidateDate(date); err != nil {
		return nil, invalid(err)
	}

	var log *models.DailyLog
	err := s.update(func(snap *Snapshot) (bool, error) {
		if log = findDailyLogByDate(snap, userID, date); log != nil {
			return false, nil
		}
		log = models.NewDailyLog(userID, date, s.stamp())
		snap.DailyLogs = append(snap.DailyLogs, log)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// FindDailyLog returns the user's log for date, or nil. It never creates.
func (s *Store) FindDailyLog(userID, date string) (*models.DailyLog, error) {
	if err := models.ValidateDate(date); err != nil {
		return nil, invalid(err)
	}

	var log *models.DailyLog
	err := s.view(func(snap *Snapshot) error {
		log = findDailyLogByDate(snap, userID, date)
		return nil
	})
	return log, err
}

// GetDailyLog returns the log with id, or nil.
func (s *Store) GetDailyLog(id string) (*models.DailyLog, error) {
	var log *models.DailyLog
	err := s.view(func(snap *Snapshot) error {
		log = findDailyLog(snap, id)
		return nil
	})
	return log, err
}

// ListDailyLogs returns the user's logs, most recent date first.
func (s *Store) ListDailyLogs(userID string) ([]*models.DailyLog, error) {
	var logs []*models.DailyLog
	err := s.view(func(snap *Snapshot) error {
		for _, l := range snap.DailyLogs {
			if l.UserID == userID {
				logs = append(logs, l)
			}
		}
		// YYYY-MM-DD sorts lexically in date order.
		sort.SliceStable(logs, func(i, j int) bool {
			return logs[i].Date > logs[j].Date
		})
		return nil
	})
	return logs, err
}

func findDailyLogByDate(snap *Snapshot, userID, date string) *models.DailyLog {
	for _, l := range snap.DailyLogs {
		if l.UserID == userID && l.Date == date {
			return l
		}
	}
	return nil
}

func findDailyLog(snap *Snapshot, id string) *models.DailyLog {
	for _, l := range snap.DailyLogs {
		if l.ID == id {
			return l
		}
	}
	return nil
}
