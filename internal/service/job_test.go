package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/observ"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type jobFixture struct {
	manager    *Registered
	propertyID uuid.UUID
	provider   models.ServiceProvider
	plumbing   models.JobType
}

func newJobFixture(t *testing.T, e *env) jobFixture {
	t.Helper()
	ctx := context.Background()

	plumbing := e.jobType(t, "Plumbing")
	pm := e.manager(t, "pm1", "1 Main St")
	e.provider(t, "fixit", "Fixit Ltd", plumbing)

	props, err := e.props.List(ctx, pm.ID)
	require.NoError(t, err)
	require.Len(t, props, 1)

	providers, err := e.providers.ListByJobType(ctx, plumbing.ID.String())
	require.NoError(t, err)
	require.Len(t, providers, 1)

	return jobFixture{manager: pm, propertyID: props[0].ID, provider: providers[0], plumbing: plumbing}
}

func (f jobFixture) input(description string) CreateJobInput {
	return CreateJobInput{
		PropertyID:        f.propertyID.String(),
		TypeID:            f.plumbing.ID.String(),
		ServiceProviderID: f.provider.ID.String(),
		Description:       description,
	}
}

func TestCreateJobRoundTrip(t *testing.T) {
	e := newEnv(t)
	f := newJobFixture(t, e)
	ctx := context.Background()

	posted, err := e.jobs.Create(ctx, f.manager.ID, f.input("Leaking tap"))
	require.NoError(t, err)
	assert.Equal(t, "Plumbing", posted.Name)
	assert.Equal(t, f.provider.ID, posted.ServiceProviderID)
	assert.GreaterOrEqual(t, posted.JobNumber, models.MinJobNumber)
	assert.LessOrEqual(t, posted.JobNumber, models.MaxJobNumber)

	jobs, err := e.jobs.List(ctx, f.manager.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, posted.ID, jobs[0].ID)
	assert.Equal(t, posted.JobNumber, jobs[0].JobNumber)

	details, err := e.jobs.Details(ctx, f.manager.ID, posted.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", details.Property.Address)
	assert.Equal(t, "Fixit Ltd", details.Provider.CompanyName)
	assert.Equal(t, "Plumbing", details.JobType.Name)
	assert.NotNil(t, details.OwnerDetails)
	assert.NotNil(t, details.TenantDetails)

	expected := `
# HELP propman_jobs_posted_total Jobs created
# TYPE propman_jobs_posted_total counter
propman_jobs_posted_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(e.metrics.Registry(), strings.NewReader(expected), "propman_jobs_posted_total"))
}

func TestCreateJobValidation(t *testing.T) {
	e := newEnv(t)
	f := newJobFixture(t, e)
	ctx := context.Background()

	other := e.manager(t, "pm2", "99 Other Rd")
	otherProps, err := e.props.List(ctx, other.ID)
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*CreateJobInput)
		field  string
	}{
		{"missing description", func(in *CreateJobInput) { in.Description = "  " }, "description"},
		{"malformed property", func(in *CreateJobInput) { in.PropertyID = "abc" }, "propertyId"},
		{"property managed by someone else", func(in *CreateJobInput) { in.PropertyID = otherProps[0].ID.String() }, "propertyId"},
		{"unknown provider", func(in *CreateJobInput) { in.ServiceProviderID = uuid.NewString() }, "serviceProviderId"},
		{"unknown job type", func(in *CreateJobInput) { in.TypeID = uuid.NewString() }, "type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := f.input("Leaking tap")
			tc.mutate(&in)

			_, err := e.jobs.Create(ctx, f.manager.ID, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}

	jobs, err := e.jobs.List(ctx, f.manager.ID)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestCreateJobAcceptsAnyExistingJobType(t *testing.T) {
	e := newEnv(t)
	f := newJobFixture(t, e)
	ctx := context.Background()
	electrical := e.jobType(t, "Electrical")

	t.Run("type the provider did not declare", func(t *testing.T) {
		in := f.input("Flickering lights")
		in.TypeID = electrical.ID.String()

		posted, err := e.jobs.Create(ctx, f.manager.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "Electrical", posted.Name)
	})

	t.Run("provider registered without job types", func(t *testing.T) {
		reg := e.provider(t, "handy", "Handy Co")
		sp, err := e.store.Repos().ServiceProviders.GetByUser(ctx, reg.ID)
		require.NoError(t, err)
		require.NotNil(t, sp)

		in := f.input("Squeaky door")
		in.ServiceProviderID = sp.ID.String()

		posted, err := e.jobs.Create(ctx, f.manager.ID, in)
		require.NoError(t, err)
		assert.Equal(t, sp.ID, posted.ServiceProviderID)
	})

	jobs, err := e.jobs.List(ctx, f.manager.ID)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestJobsRequireManager(t *testing.T) {
	e := newEnv(t)
	f := newJobFixture(t, e)
	ctx := context.Background()
	owner := e.register(t, RegisterInput{Username: "owner1", Role: "PropertyOwner", Address: "1 Main St"})

	_, err := e.jobs.Create(ctx, owner.ID, f.input("Leaking tap"))
	assert.ErrorIs(t, err, ErrNotManager)

	_, err = e.jobs.List(ctx, owner.ID)
	assert.ErrorIs(t, err, ErrNotManager)

	_, err = e.props.List(ctx, owner.ID)
	assert.ErrorIs(t, err, ErrNotManager)
}

func TestJobDetailsHiddenFromOtherCallers(t *testing.T) {
	e := newEnv(t)
	f := newJobFixture(t, e)
	ctx := context.Background()

	posted, err := e.jobs.Create(ctx, f.manager.ID, f.input("Leaking tap"))
	require.NoError(t, err)

	other := e.manager(t, "pm2", "2 Main St")
	_, err = e.jobs.Details(ctx, other.ID, posted.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)

	_, err = e.jobs.Details(ctx, f.manager.ID, uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestCreateJobRetriesOnCollision(t *testing.T) {
	e := newEnv(t)
	f := newJobFixture(t, e)
	ctx := context.Background()

	draws := []int{123456, 123456, 123456, 654321}
	var mu sync.Mutex
	e.jobs.newNumber = func() int {
		mu.Lock()
		defer mu.Unlock()
		n := draws[0]
		draws = draws[1:]
		return n
	}

	first, err := e.jobs.Create(ctx, f.manager.ID, f.input("first"))
	require.NoError(t, err)
	assert.Equal(t, 123456, first.JobNumber)

	second, err := e.jobs.Create(ctx, f.manager.ID, f.input("second"))
	require.NoError(t, err)
	assert.Equal(t, 654321, second.JobNumber)

	expected := `
# HELP propman_job_number_collisions_total Job number draws that collided with an existing job
# TYPE propman_job_number_collisions_total counter
propman_job_number_collisions_total 2
`
	assert.NoError(t, testutil.GatherAndCompare(e.metrics.Registry(), strings.NewReader(expected), "propman_job_number_collisions_total"))
}

func TestCreateJobGivesUpAfterMaxAttempts(t *testing.T) {
	e := newEnv(t)
	f := newJobFixture(t, e)
	ctx := context.Background()

	e.jobs = NewJob(e.store, nil, observ.NewMetrics(), zap.NewNop(), 3)
	e.jobs.newNumber = func() int { return 111111 }

	_, err := e.jobs.Create(ctx, f.manager.ID, f.input("first"))
	require.NoError(t, err)

	_, err = e.jobs.Create(ctx, f.manager.ID, f.input("second"))
	assert.ErrorIs(t, err, ErrJobNumberExhausted)
}

func TestConcurrentJobCreationHasUniqueNumbers(t *testing.T) {
	e := newEnv(t)
	f := newJobFixture(t, e)
	ctx := context.Background()

	// A tiny number space forces collisions between the workers.
	var mu sync.Mutex
	next := 0
	e.jobs.maxAttempts = 50
	e.jobs.newNumber = func() int {
		mu.Lock()
		defer mu.Unlock()
		next++
		return models.MinJobNumber + next%16
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.jobs.Create(ctx, f.manager.ID, f.input("concurrent"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	jobs, err := e.jobs.List(ctx, f.manager.ID)
	require.NoError(t, err)
	require.Len(t, jobs, workers)

	seen := make(map[int]bool, workers)
	for _, j := range jobs {
		assert.False(t, seen[j.JobNumber], "job number %d issued twice", j.JobNumber)
		seen[j.JobNumber] = true
	}
}

type countingCache struct {
	types []models.JobType
	gets  int
	sets  int
	fail  bool
}

func (c *countingCache) Get(context.Context) ([]models.JobType, bool, error) {
	c.gets++
	if c.fail {
		return nil, false, errors.New("cache down")
	}
	return c.types, c.types != nil, nil
}

func (c *countingCache) Set(_ context.Context, types []models.JobType) error {
	c.sets++
	c.types = types
	return nil
}

func (c *countingCache) Invalidate(context.Context) error {
	c.types = nil
	return nil
}

func TestJobTypesReadThroughCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := &countingCache{}
	jobs := NewJob(e.store, c, observ.NewMetrics(), zap.NewNop(), 1)

	first, err := jobs.Types(ctx)
	require.NoError(t, err)
	second, err := jobs.Types(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.sets, "the store is read once")
	assert.Equal(t, []string{"Electrical", "Plumbing"}, []string{first[0].Name, first[1].Name})

	added, err := jobs.SeedTypes(ctx, []string{"Roofing"})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	third, err := jobs.Types(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 3)
}

func TestJobTypesFallBackWhenCacheFails(t *testing.T) {
	e := newEnv(t)
	jobs := NewJob(e.store, &countingCache{fail: true}, nil, zap.NewNop(), 1)

	types, err := jobs.Types(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, 2)
}

func TestListProvidersByJobType(t *testing.T) {
	e := newEnv(t)
	f := newJobFixture(t, e)
	ctx := context.Background()

	providers, err := e.providers.ListByJobType(ctx, strings.ToUpper(f.plumbing.ID.String()))
	require.NoError(t, err)
	assert.Len(t, providers, 1)

	providers, err = e.providers.ListByJobType(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, providers)

	_, err = e.providers.ListByJobType(ctx, " ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "jobType")
}
