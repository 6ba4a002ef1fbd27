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

type PropertyStore struct {
	db DBTX
}

func NewPropertyStore(db DBTX) *PropertyStore {
	return &PropertyStore{db: db}
}

func (s *PropertyStore) Create(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (id, address, normalized_address, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING created_at`

	err := s.db.QueryRow(ctx, query, p.ID, p.Address, repository.Normalize(p.Address)).Scan(&p.CreatedAt)
	if err != nil {
		return translate("insert property", err)
	}
	return nil
}

func (s *PropertyStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := `
		SELECT id, address, created_at
		FROM properties
		WHERE id = $1`

	var p models.Property
	err := s.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Address, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return &p, nil
}

func (s *PropertyStore) GetByAddress(ctx context.Context, address string) (*models.Property, error) {
	query := `
		SELECT id, address, created_at
		FROM properties
		WHERE normalized_address = $1`

	var p models.Property
	err := s.db.QueryRow(ctx, query, repository.Normalize(address)).Scan(&p.ID, &p.Address, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property by address: %w", err)
	}
	return &p, nil
}

func (s *PropertyStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Property, error) {
	properties := make([]models.Property, 0, len(ids))
	if len(ids) == 0 {
		return properties, nil
	}

	query := `
		SELECT id, address, created_at
		FROM properties
		WHERE id = ANY($1)
		ORDER BY address`

	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.Address, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}

	return properties, nil
}
