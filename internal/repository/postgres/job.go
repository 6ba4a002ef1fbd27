package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/propman/internal/models"
)

type JobStore struct {
	db DBTX
}

func NewJobStore(db DBTX) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, job_number, property_id, posted_by_user_id, type_id, service_provider_id, description, posted_on`

func (s *JobStore) Create(ctx context.Context, j *models.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.Exec(ctx, query,
		j.ID,
		j.JobNumber,
		j.PropertyID,
		j.PostedByUserID,
		j.TypeID,
		j.ServiceProviderID,
		j.Description,
		j.PostedOn,
	)
	if err != nil {
		return translate("insert job", err)
	}
	return nil
}

func (s *JobStore) GetForUser(ctx context.Context, userID, jobID uuid.UUID) (*models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE id = $1 AND posted_by_user_id = $2`

	var j models.Job
	err := s.db.QueryRow(ctx, query, jobID, userID).Scan(
		&j.ID,
		&j.JobNumber,
		&j.PropertyID,
		&j.PostedByUserID,
		&j.TypeID,
		&j.ServiceProviderID,
		&j.Description,
		&j.PostedOn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

func (s *JobStore) ListByPoster(ctx context.Context, userID uuid.UUID) ([]models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE posted_by_user_id = $1
		ORDER BY posted_on DESC, job_number`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.Job, 0)
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(
			&j.ID,
			&j.JobNumber,
			&j.PropertyID,
			&j.PostedByUserID,
			&j.TypeID,
			&j.ServiceProviderID,
			&j.Description,
			&j.PostedOn,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return jobs, nil
}
