package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/propman/internal/models"
)

type ServiceProviderStore struct {
	db DBTX
}

func NewServiceProviderStore(db DBTX) *ServiceProviderStore {
	return &ServiceProviderStore{db: db}
}

func (s *ServiceProviderStore) Create(ctx context.Context, sp *models.ServiceProvider) error {
	query := `
		INSERT INTO service_providers (id, user_id, company_name, email)
		VALUES ($1, $2, $3, $4)`

	if _, err := s.db.Exec(ctx, query, sp.ID, sp.UserID, sp.CompanyName, sp.Email); err != nil {
		return translate("insert service provider", err)
	}
	return nil
}

func (s *ServiceProviderStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceProvider, error) {
	return s.get(ctx, `WHERE id = $1`, id)
}

func (s *ServiceProviderStore) GetByUser(ctx context.Context, userID uuid.UUID) (*models.ServiceProvider, error) {
	return s.get(ctx, `WHERE user_id = $1 ORDER BY company_name, id LIMIT 1`, userID)
}

func (s *ServiceProviderStore) get(ctx context.Context, where string, arg uuid.UUID) (*models.ServiceProvider, error) {
	query := `SELECT id, user_id, company_name, email FROM service_providers ` + where

	var sp models.ServiceProvider
	err := s.db.QueryRow(ctx, query, arg).Scan(&sp.ID, &sp.UserID, &sp.CompanyName, &sp.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service provider: %w", err)
	}
	return &sp, nil
}

// AddJobType is idempotent for a repeated (provider, job type) pair.
func (s *ServiceProviderStore) AddJobType(ctx context.Context, link *models.ServiceProviderJobType) error {
	query := `
		INSERT INTO service_provider_job_types (id, job_type_id, service_provider_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (service_provider_id, job_type_id) DO NOTHING`

	if _, err := s.db.Exec(ctx, query, link.ID, link.JobTypeID, link.ServiceProviderID); err != nil {
		return translate("insert service provider job type", err)
	}
	return nil
}

func (s *ServiceProviderStore) ListByJobType(ctx context.Context, jobType string) ([]models.ServiceProvider, error) {
	query := `
		SELECT sp.id, sp.user_id, sp.company_name, sp.email
		FROM service_provider_job_types spjt
		JOIN service_providers sp ON sp.id = spjt.service_provider_id
		WHERE spjt.job_type_id::text = lower(trim($1))
		ORDER BY sp.company_name, sp.id`

	rows, err := s.db.Query(ctx, query, jobType)
	if err != nil {
		return nil, fmt.Errorf("list service providers: %w", err)
	}
	defer rows.Close()

	providers := make([]models.ServiceProvider, 0)
	for rows.Next() {
		var sp models.ServiceProvider
		if err := rows.Scan(&sp.ID, &sp.UserID, &sp.CompanyName, &sp.Email); err != nil {
			return nil, fmt.Errorf("scan service provider: %w", err)
		}
		providers = append(providers, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service providers: %w", err)
	}

	return providers, nil
}
