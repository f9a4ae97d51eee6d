// ABOUTME: Identity and profile operations for the ledger store.
// ABOUTME: Users are found or created by exact email; profiles are one per user.
package storage

import (
	"errors"

	"github.com/harperreed/calories/internal/models"
)

// EnsureUser returns the user with this exact email, creating it on first
// sight. Matching is case-sensitive and the first match wins.
func (s *Store) EnsureUser(email string) (*models.User, error) {
	if email == "" {
		return nil, invalid(errors.New("email is required"))
	}

	var user *models.User
	err := s.update(func(snap *Snapshot) (bool, error) {
		for _, u := range snap.Users {
			if u.Email == email {
				user = u
				return false, nil
			}
		}
		user = models.NewUser(email)
		snap.Users = append(snap.Users, user)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile returns the user's profile, or nil if none exists. It never
// creates one.
func (s *Store) GetProfile(userID string) (*models.Profile, error) {
	var profile *models.Profile
	err := s.view(func(snap *Snapshot) error {
		profile = findProfile(snap, userID)
		return nil
	})
	return profile, err
}

// UpsertProfile sets the daily goal, creating the profile if needed.
func (s *Store) UpsertProfile(userID string, dailyGoal int) (*models.Profile, error) {
	if dailyGoal <= 0 {
		return nil, invalid(errors.New("daily_calorie_goal must be a positive integer"))
	}

	var profile *models.Profile
	err := s.update(func(snap *Snapshot) (bool, error) {
		at := s.stamp()
		profile = findProfile(snap, userID)
		if profile == nil {
			profile = models.NewProfile(userID, dailyGoal, at)
			snap.Profiles = append(snap.Profiles, profile)
			return true, nil
		}
		profile.DailyCalorieGoal = dailyGoal
		profile.UpdatedAt = at
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func findProfile(snap *Snapshot, userID string) *models.Profile {
	for _, p := range snap.Profiles {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}
