package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/repository"
)

type UserStore struct {
	access accessor
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	if !u.Role.Valid() {
		return fmt.Errorf("insert user: unknown role %q", u.Role)
	}
	return s.access(func(st *state) error {
		username := repository.Normalize(u.Username)
		email := repository.Normalize(u.Email)
		for _, existing := range st.users {
			if repository.Normalize(existing.Username) == username {
				return fmt.Errorf("insert user: %w", repository.ErrDuplicateUsername)
			}
			if repository.Normalize(existing.Email) == email {
				return fmt.Errorf("insert user: %w", repository.ErrDuplicateEmail)
			}
		}
		u.CreatedAt = time.Now().UTC()
		st.users[u.ID] = *u
		return nil
	})
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var found *models.User
	err := s.access(func(st *state) error {
		if u, ok := st.users[id]; ok {
			found = &u
		}
		return nil
	})
	return found, err
}

// GetByLogin prefers a username match over an email match.
func (s *UserStore) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	key := repository.Normalize(login)
	var found *models.User
	err := s.access(func(st *state) error {
		for _, u := range st.users {
			if repository.Normalize(u.Username) == key {
				found = &u
				return nil
			}
			if found == nil && repository.Normalize(u.Email) == key {
				found = &u
			}
		}
		return nil
	})
	return found, err
}

func (s *UserStore) ExistsUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(func(u models.User) string { return u.Username }, username)
}

func (s *UserStore) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(func(u models.User) string { return u.Email }, email)
}

func (s *UserStore) exists(field func(models.User) string, value string) (bool, error) {
	key := repository.Normalize(value)
	var exists bool
	err := s.access(func(st *state) error {
		for _, u := range st.users {
			if repository.Normalize(field(u)) == key {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}
