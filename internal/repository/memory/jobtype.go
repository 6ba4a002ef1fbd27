package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/models"
)

type JobTypeStore struct {
	access accessor
}

func (s *JobTypeStore) List(ctx context.Context) ([]models.JobType, error) {
	types := make([]models.JobType, 0)
	err := s.access(func(st *state) error {
		for _, jt := range st.jobTypes {
			types = append(types, jt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(types, func(a, b models.JobType) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return types, nil
}

func (s *JobTypeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.JobType, error) {
	var found *models.JobType
	err := s.access(func(st *state) error {
		if jt, ok := st.jobTypes[id]; ok {
			found = &jt
		}
		return nil
	})
	return found, err
}

func (s *JobTypeStore) EnsureNames(ctx context.Context, names []string) (int, error) {
	added := 0
	err := s.access(func(st *state) error {
		existing := make(map[string]bool, len(st.jobTypes))
		for _, jt := range st.jobTypes {
			existing[jt.Name] = true
		}
		for _, name := range names {
			if existing[name] {
				continue
			}
			id := uuid.New()
			st.jobTypes[id] = models.JobType{ID: id, Name: name}
			existing[name] = true
			added++
		}
		return nil
	})
	return added, err
}
