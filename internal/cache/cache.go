// Package cache holds the read-through cache for the job type catalogue.
package cache

import (
	"context"

	"github.com/lalith-99/propman/internal/models"
)

// JobTypes caches the full job type list. Get reports ok=false on a miss.
type JobTypes interface {
	Get(ctx context.Context) (types []models.JobType, ok bool, err error)
	Set(ctx context.Context, types []models.JobType) error
	Invalidate(ctx context.Context) error
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context) ([]models.JobType, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, []models.JobType) error { return nil }
func (Nop) Invalidate(context.Context) error { return nil }
