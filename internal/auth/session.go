// ABOUTME: Session tracks the signed-in email in a dedicated byte-store slot.
// ABOUTME: Signing in resolves the email to a stable user through the repository.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/calories/internal/bytestore"
	"github.com/harperreed/calories/internal/models"
	"github.com/harperreed/calories/internal/storage"
)

// ErrSignedOut is returned by Current when nobody is signed in.
var ErrSignedOut = errors.New("not signed in")

// Session reads and writes the current identity.
type Session struct {
	slots bytestore.Store
	repo  storage.Repository
}

// NewSession returns a Session storing its email in slots.
func NewSession(slots bytestore.Store, repo storage.Repository) *Session {
	return &Session{slots: slots, repo: repo}
}

// SignIn records email as the current identity and returns its user.
// Surrounding whitespace is trimmed; case is kept.
func (s *Session) SignIn(email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	user, err := s.repo.EnsureUser(email)
	if err != nil {
		return nil, err
	}
	if err := s.slots.Set(bytestore.SessionSlot, []byte(email)); err != nil {
		return nil, fmt.Errorf("%w: save session: %w", storage.ErrStorageUnavailable, err)
	}
	return user, nil
}

// SignOut clears the current identity. Signing out twice is fine.
func (s *Session) SignOut() error {
	if err := s.slots.Delete(bytestore.SessionSlot); err != nil {
		return fmt.Errorf("%w: clear session: %w", storage.ErrStorageUnavailable, err)
	}
	return nil
}

// Email returns the stored email without touching the ledger.
func (s *Session) Email() (string, error) {
	data, err := s.slots.Get(bytestore.SessionSlot)
	if errors.Is(err, bytestore.ErrNotFound) {
		return "", ErrSignedOut
	}
	if err != nil {
		return "", fmt.Errorf("%w: load session: %w", storage.ErrStorageUnavailable, err)
	}
	email := strings.TrimSpace(string(data))
	if email == "" {
		return "", ErrSignedOut
	}
	return email, nil
}

// Current returns the signed-in user, recreating the user record if the
// ledger was reset since sign-in.
func (s *Session) Current() (*models.User, error) {
	email, err := s.Email()
	if err != nil {
		return nil, err
	}
	return s.repo.EnsureUser(email)
}
