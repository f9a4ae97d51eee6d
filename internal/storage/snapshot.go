// ABOUTME: Snapshot is the full serialized state of every ledger collection.
// ABOUTME: Decoding fills defaults so older or partial payloads load safely.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/calories/internal/models"
)

// SchemaVersion is written into every saved snapshot.
const SchemaVersion = 1

// Snapshot holds every collection in insertion order.
type Snapshot struct {
	SchemaVersion int       `json:"schema_version"`
	Revision      string    `json:"revision,omitempty"`
	SavedAt       time.Time `json:"saved_at"`

	Users           []*models.User          `json:"users"`
	Foods           []*models.Food          `json:"foods"`
	Activities      []*models.Activity      `json:"activities"`
	DailyLogs       []*models.DailyLog      `json:"daily_logs"`
	FoodEntries     []*models.FoodEntry     `json:"food_entries"`
	ActivityEntries []*models.ActivityEntry `json:"activity_entries"`
	Profiles        []*models.Profile       `json:"profiles"`

	// Payloads written before profiles were renamed keep them here.
	LegacyProfiles []*models.Profile `json:"users_profile,omitempty"`
}

// NewSnapshot returns a snapshot with every collection present and empty.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		SchemaVersion:   SchemaVersion,
		Users:           []*models.User{},
		Foods:           []*models.Food{},
		Activities:      []*models.Activity{},
		DailyLogs:       []*models.DailyLog{},
		FoodEntries:     []*models.FoodEntry{},
		ActivityEntries: []*models.ActivityEntry{},
		Profiles:        []*models.Profile{},
	}
}

// Counts returns the number of records per collection name.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		"users":            len(s.Users),
		"foods":            len(s.Foods),
		"activities":       len(s.Activities),
		"daily_logs":       len(s.DailyLogs),
		"food_entries":     len(s.FoodEntries),
		"activity_entries": len(s.ActivityEntries),
		"profiles":         len(s.Profiles),
	}
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	snap.normalize()
	return &snap, nil
}

func encodeSnapshot(snap *Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// normalize replaces missing collections with empty ones, drops null
// records, and folds legacy profiles into Profiles.
func (s *Snapshot) normalize() {
	if s.SchemaVersion == 0 {
		s.SchemaVersion = SchemaVersion
	}
	s.Users = compact(s.Users)
	s.Foods = compact(s.Foods)
	s.Activities = compact(s.Activities)
	s.DailyLogs = compact(s.DailyLogs)
	s.FoodEntries = compact(s.FoodEntries)
	s.ActivityEntries = compact(s.ActivityEntries)
	s.Profiles = compact(s.Profiles)

	for _, p := range compact(s.LegacyProfiles) {
		if findProfile(s, p.UserID) == nil {
			s.Profiles = append(s.Profiles, p)
		}
	}
	s.LegacyProfiles = nil
}

func compact[T any](in []*T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}
