package service

import (
	"context"
	"testing"
	"time"

	"github.com/lalith-99/propman/internal/auth"
	"github.com/lalith-99/propman/internal/config"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/observ"
	"github.com/lalith-99/propman/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	store     *memory.Store
	tokens    *auth.Issuer
	metrics   *observ.Metrics
	accounts  *Account
	jobs      *Job
	props     *Property
	providers *ServiceProvider
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.NewStore()
	tokens := auth.NewIssuer(config.JWTConfig{
		Secret:     "0123456789abcdef0123456789abcdef",
		Issuer:     "propman",
		Audience:   "propman-spa",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
	metrics := observ.NewMetrics()
	logger := zap.NewNop()

	e := &env{
		store:     store,
		tokens:    tokens,
		metrics:   metrics,
		accounts:  NewAccount(store, tokens, metrics, logger),
		jobs:      NewJob(store, nil, metrics, logger, 10),
		props:     NewProperty(store),
		providers: NewServiceProvider(store),
	}
	_, err := e.jobs.SeedTypes(context.Background(), []string{"Electrical", "Plumbing"})
	require.NoError(t, err)
	return e
}

func hashForTest(t *testing.T) (string, error) {
	t.Helper()
	return auth.HashPassword("s3cret-pass")
}

func (e *env) jobType(t *testing.T, name string) models.JobType {
	t.Helper()
	types, err := e.jobs.Types(context.Background())
	require.NoError(t, err)
	for _, jt := range types {
		if jt.Name == name {
			return jt
		}
	}
	t.Fatalf("job type %q not seeded", name)
	return models.JobType{}
}

func (e *env) register(t *testing.T, in RegisterInput) *Registered {
	t.Helper()
	if in.Password == "" {
		in.Password = "s3cret-pass"
	}
	if in.Email == "" {
		in.Email = in.Username + "@example.com"
	}
	if in.FirstName == "" {
		in.FirstName = "First"
	}
	if in.LastName == "" {
		in.LastName = "Last"
	}
	reg, err := e.accounts.Register(context.Background(), in)
	require.NoError(t, err)
	return reg
}

func (e *env) manager(t *testing.T, username, address string) *Registered {
	return e.register(t, RegisterInput{Username: username, Role: "PropertyManager", Address: address})
}

func (e *env) provider(t *testing.T, username, company string, jobTypes ...models.JobType) *Registered {
	ids := make([]string, 0, len(jobTypes))
	for _, jt := range jobTypes {
		ids = append(ids, jt.ID.String())
	}
	return e.register(t, RegisterInput{Username: username, Role: "ServiceProvider", CompanyName: company, JobTypeIDs: ids})
}
