package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/propman/internal/models"
)

type JobTypeStore struct {
	db DBTX
}

func NewJobTypeStore(db DBTX) *JobTypeStore {
	return &JobTypeStore{db: db}
}

func (s *JobTypeStore) List(ctx context.Context) ([]models.JobType, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM job_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list job types: %w", err)
	}
	defer rows.Close()

	types := make([]models.JobType, 0)
	for rows.Next() {
		var jt models.JobType
		if err := rows.Scan(&jt.ID, &jt.Name); err != nil {
			return nil, fmt.Errorf("scan job type: %w", err)
		}
		types = append(types, jt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job types: %w", err)
	}

	return types, nil
}

func (s *JobTypeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.JobType, error) {
	var jt models.JobType
	err := s.db.QueryRow(ctx, `SELECT id, name FROM job_types WHERE id = $1`, id).Scan(&jt.ID, &jt.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job type: %w", err)
	}
	return &jt, nil
}

func (s *JobTypeStore) EnsureNames(ctx context.Context, names []string) (int, error) {
	query := `
		INSERT INTO job_types (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING`

	added := 0
	for _, name := range names {
		tag, err := s.db.Exec(ctx, query, uuid.New(), name)
		if err != nil {
			return added, fmt.Errorf("insert job type %q: %w", name, err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}
