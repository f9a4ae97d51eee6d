// ABOUTME: Food and Activity catalog CRUD for the ledger store.
// ABOUTME: Deletes never cascade; entries keep their own snapshot of the source.
package storage

import (
	"time"

	"github.com/harperreed/calories/internal/models"
)

// ListFoods returns the user's foods, newest first.
func (s *Store) ListFoods(userID string) ([]*models.Food, error) {
	var foods []*models.Food
	err := s.view(func(snap *Snapshot) error {
		var owned []*models.Food
		for _, f := range snap.Foods {
			if f.UserID == userID {
				owned = append(owned, f)
			}
		}
		foods = newestFirst(owned, func(f *models.Food) time.Time { return f.CreatedAt })
		return nil
	})
	return foods, err
}

// GetFood returns the food with id, or nil.
func (s *Store) GetFood(id string) (*models.Food, error) {
	var food *models.Food
	err := s.view(func(snap *Snapshot) error {
		_, food = findFood(snap, id)
		return nil
	})
	return food, err
}

// AddFood validates and appends a new food.
func (s *Store) AddFood(userID string, in models.FoodInput) (*models.Food, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	var food *models.Food
	err := s.update(func(snap *Snapshot) (bool, error) {
		food = models.NewFood(userID, in, s.stamp())
		snap.Foods = append(snap.Foods, food)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return food, nil
}

// UpdateFood merges u into the food with id. Unknown ids are ignored.
func (s *Store) UpdateFood(id string, u models.FoodUpdate) error {
	if err := u.Validate(); err != nil {
		return invalid(err)
	}
	return s.update(func(snap *Snapshot) (bool, error) {
		_, f := findFood(snap, id)
		if f == nil {
			return false, nil
		}
		u.Apply(f)
		return true, nil
	})
}

// DeleteFood removes the food with id. Unknown ids are ignored.
func (s *Store) DeleteFood(id string) error {
	return s.update(func(snap *Snapshot) (bool, error) {
		i, _ := findFood(snap, id)
		if i < 0 {
			return false, nil
		}
		snap.Foods = append(snap.Foods[:i], snap.Foods[i+1:]...)
		return true, nil
	})
}

// ListActivities returns the user's activities, newest first.
func (s *Store) ListActivities(userID string) ([]*models.Activity, error) {
	var activities []*models.Activity
	err := s.view(func(snap *Snapshot) error {
		var owned []*models.Activity
		for _, a := range snap.Activities {
			if a.UserID == userID {
				owned = append(owned, a)
			}
		}
		activities = newestFirst(owned, func(a *models.Activity) time.Time { return a.CreatedAt })
		return nil
	})
	return activities, err
}

// GetActivity returns the activity with id, or nil.
func (s *Store) GetActivity(id string) (*models.Activity, error) {
	var activity *models.Activity
	err := s.view(func(snap *Snapshot) error {
		_, activity = findActivity(snap, id)
		return nil
	})
	return activity, err
}

// AddActivity validates and appends a new activity.
func (s *Store) AddActivity(userID string, in models.ActivityInput) (*models.Activity, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	var activity *models.Activity
	err := s.update(func(snap *Snapshot) (bool, error) {
		activity = models.NewActivity(userID, in, s.stamp())
		snap.Activities = append(snap.Activities, activity)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

// UpdateActivity merges u into the activity with id. Unknown ids are ignored.
func (s *Store) UpdateActivity(id string, u models.ActivityUpdate) error {
	if err := u.Validate(); err != nil {
		return invalid(err)
	}
	return s.update(func(snap *Snapshot) (bool, error) {
		_, a := findActivity(snap, id)
		if a == nil {
			return false, nil
		}
		u.Apply(a)
		return true, nil
	})
}

// DeleteActivity removes the activity with id. Unknown ids are ignored.
func (s *Store) DeleteActivity(id string) error {
	return s.update(func(snap *Snapshot) (bool, error) {
		i, _ := findActivity(snap, id)
		if i < 0 {
			return false, nil
		}
		snap.Activities = append(snap.Activities[:i], snap.Activities[i+1:]...)
		return true, nil
	})
}

func findFood(snap *Snapshot, id string) (int, *models.Food) {
	for i, f := range snap.Foods {
		if f.ID == id {
			return i, f
		}
	}
	return -1, nil
}

func findActivity(snap *Snapshot, id string) (int, *models.Activity) {
	for i, a := range snap.Activities {
		if a.ID == id {
			return i, a
		}
	}
	return -1, nil
}
