package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/repository"
)

type UserStore struct {
	db DBTX
}

func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, role, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. CreatedAt is filled in from the database.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	if !u.Role.Valid() {
		return fmt.Errorf("insert user: unknown role %q", u.Role)
	}

	query := `
		INSERT INTO users (id, username, normalized_username, email, normalized_email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING created_at`

	err := s.db.QueryRow(ctx, query,
		u.ID,
		u.Username,
		repository.Normalize(u.Username),
		u.Email,
		repository.Normalize(u.Email),
		u.PasswordHash,
		u.Role,
	).Scan(&u.CreatedAt)
	if err != nil {
		return translate("insert user", err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE normalized_username = $1 OR normalized_email = $1
		ORDER BY (normalized_username = $1) DESC
		LIMIT 1`

	u, err := scanUser(s.db.QueryRow(ctx, query, repository.Normalize(login)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by login: %w", err)
	}
	return u, nil
}

func (s *UserStore) ExistsUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE normalized_username = $1)`, username)
}

func (s *UserStore) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE normalized_email = $1)`, email)
}

func (s *UserStore) exists(ctx context.Context, query, value string) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, query, repository.Normalize(value)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}
