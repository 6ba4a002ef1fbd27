package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/repository"
)

type JobStore struct {
	access accessor
}

func (s *JobStore) Create(ctx context.Context, j *models.Job) error {
	return s.access(func(st *state) error {
		for _, existing := range st.jobs {
			if existing.JobNumber == j.JobNumber {
				return fmt.Errorf("insert job: %w", repository.ErrDuplicateJobNumber)
			}
		}
		if _, ok := st.properties[j.PropertyID]; !ok {
			return fmt.Errorf("insert job: %w: property", repository.ErrForeignKey)
		}
		if _, ok := st.users[j.PostedByUserID]; !ok {
			return fmt.Errorf("insert job: %w: user", repository.ErrForeignKey)
		}
		if _, ok := st.jobTypes[j.TypeID]; !ok {
			return fmt.Errorf("insert job: %w: job type", repository.ErrForeignKey)
		}
		if _, ok := st.providers[j.ServiceProviderID]; !ok {
			return fmt.Errorf("insert job: %w: service provider", repository.ErrForeignKey)
		}
		st.jobs[j.ID] = *j
		return nil
	})
}

func (s *JobStore) GetForUser(ctx context.Context, userID, jobID uuid.UUID) (*models.Job, error) {
	var found *models.Job
	err := s.access(func(st *state) error {
		if j, ok := st.jobs[jobID]; ok && j.PostedByUserID == userID {
			found = &j
		}
		return nil
	})
	return found, err
}

// ListByPoster orders by posting time, newest first, then job number.
func (s *JobStore) ListByPoster(ctx context.Context, userID uuid.UUID) ([]models.Job, error) {
	jobs := make([]models.Job, 0)
	err := s.access(func(st *state) error {
		for _, j := range st.jobs {
			if j.PostedByUserID == userID {
				jobs = append(jobs, j)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(jobs, func(a, b models.Job) int {
		return cmp.Or(b.PostedOn.Compare(a.PostedOn), cmp.Compare(a.JobNumber, b.JobNumber))
	})
	return jobs, nil
}
