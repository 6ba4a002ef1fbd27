package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/repository"
)

type ServiceProviderStore struct {
	access accessor
}

func (s *ServiceProviderStore) Create(ctx context.Context, sp *models.ServiceProvider) error {
	return s.access(func(st *state) error {
		if _, ok := st.users[sp.UserID]; !ok {
			return fmt.Errorf("insert service provider: %w: user", repository.ErrForeignKey)
		}
		st.providers[sp.ID] = *sp
		return nil
	})
}

func (s *ServiceProviderStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceProvider, error) {
	var found *models.ServiceProvider
	err := s.access(func(st *state) error {
		if sp, ok := st.providers[id]; ok {
			found = &sp
		}
		return nil
	})
	return found, err
}

func (s *ServiceProviderStore) GetByUser(ctx context.Context, userID uuid.UUID) (*models.ServiceProvider, error) {
	providers, err := s.filter(func(st *state, sp models.ServiceProvider) bool { return sp.UserID == userID })
	if err != nil || len(providers) == 0 {
		return nil, err
	}
	return &providers[0], nil
}

func (s *ServiceProviderStore) AddJobType(ctx context.Context, link *models.ServiceProviderJobType) error {
	return s.access(func(st *state) error {
		if _, ok := st.jobTypes[link.JobTypeID]; !ok {
			return fmt.Errorf("insert service provider job type: %w: job type", repository.ErrForeignKey)
		}
		if _, ok := st.providers[link.ServiceProviderID]; !ok {
			return fmt.Errorf("insert service provider job type: %w: service provider", repository.ErrForeignKey)
		}
		if offers(st, link.ServiceProviderID, link.JobTypeID) {
			return nil
		}
		st.offerings = append(st.offerings, *link)
		return nil
	})
}

// ListByJobType matches jobType against the job type id's text form, the
// same comparison the Postgres store makes.
func (s *ServiceProviderStore) ListByJobType(ctx context.Context, jobType string) ([]models.ServiceProvider, error) {
	key := strings.ToLower(strings.TrimSpace(jobType))
	return s.filter(func(st *state, sp models.ServiceProvider) bool {
		for _, o := range st.offerings {
			if o.ServiceProviderID == sp.ID && o.JobTypeID.String() == key {
				return true
			}
		}
		return false
	})
}

func (s *ServiceProviderStore) filter(match func(*state, models.ServiceProvider) bool) ([]models.ServiceProvider, error) {
	providers := make([]models.ServiceProvider, 0)
	err := s.access(func(st *state) error {
		for _, sp := range st.providers {
			if match(st, sp) {
				providers = append(providers, sp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(providers, func(a, b models.ServiceProvider) int {
		return cmp.Or(cmp.Compare(a.CompanyName, b.CompanyName), cmp.Compare(a.ID.String(), b.ID.String()))
	})
	return providers, nil
}

func offers(st *state, providerID, jobTypeID uuid.UUID) bool {
	for _, o := range st.offerings {
		if o.ServiceProviderID == providerID && o.JobTypeID == jobTypeID {
			return true
		}
	}
	return false
}
