package service

import (
	"context"
	"strings"

	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/repository"
)

type ServiceProvider struct {
	store repository.Store
}

func NewServiceProvider(store repository.Store) *ServiceProvider {
	return &ServiceProvider{store: store}
}

// ListByJobType returns the providers offering jobType. The value is matched
// against job type ids as text, so an unknown value is an empty result
// rather than an error.
func (s *ServiceProvider) ListByJobType(ctx context.Context, jobType string) ([]models.ServiceProvider, error) {
	if strings.TrimSpace(jobType) == "" {
		return nil, fieldError("jobType", "jobType is required")
	}
	return s.store.Repos().ServiceProviders.ListByJobType(ctx, jobType)
}
