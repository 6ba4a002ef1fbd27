package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/cache"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/observ"
	"github.com/lalith-99/propman/internal/repository"
	"go.uber.org/zap"
)

type CreateJobInput struct {
	PropertyID        string
	TypeID            string
	ServiceProviderID string
	Description       string
}

// PostedJob is returned by Create. Name is the job type name.
type PostedJob struct {
	ID                uuid.UUID `json:"id"`
	ServiceProviderID uuid.UUID `json:"serviceProviderId"`
	JobNumber         int       `json:"jobNumber"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
}

type JobSummary struct {
	ID          uuid.UUID `json:"id"`
	JobNumber   int       `json:"jobNumber"`
	Description string    `json:"description"`
	PostedDate  time.Time `json:"postedDate"`
}

type ContactDetails struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

type PropertyRef struct {
	ID      uuid.UUID `json:"id"`
	Address string    `json:"address"`
}

type JobDetails struct {
	ID            uuid.UUID              `json:"id"`
	JobNumber     int                    `json:"jobNumber"`
	Description   string                 `json:"description"`
	PostedOn      time.Time              `json:"postedOn"`
	Property      PropertyRef            `json:"property"`
	OwnerDetails  []ContactDetails       `json:"ownerDetails"`
	TenantDetails []ContactDetails       `json:"tenantDetails"`
	JobType       models.JobType         `json:"jobType"`
	Provider      models.ServiceProvider `json:"provider"`
}

// Job covers job posting and the job type catalogue.
type Job struct {
	store       repository.Store
	jobTypes    cache.JobTypes
	metrics     *observ.Metrics
	logger      *zap.Logger
	maxAttempts int

	newNumber func() int
	now       func() time.Time
}

func NewJob(store repository.Store, jobTypes cache.JobTypes, metrics *observ.Metrics, logger *zap.Logger, maxAttempts int) *Job {
	if jobTypes == nil {
		jobTypes = cache.Nop{}
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Job{
		store:       store,
		jobTypes:    jobTypes,
		metrics:     metrics,
		logger:      logger,
		maxAttempts: maxAttempts,
		newNumber:   randomJobNumber,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func randomJobNumber() int {
	return models.MinJobNumber + rand.IntN(models.MaxJobNumber-models.MinJobNumber+1)
}

// managedProperties returns the ids of every property callerID manages, or
// ErrNotManager when there are none.
func managedProperties(ctx context.Context, repos repository.Repositories, callerID uuid.UUID) ([]uuid.UUID, error) {
	managers, err := repos.Contacts.ManagersByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(managers) == 0 {
		return nil, ErrNotManager
	}
	ids := make([]uuid.UUID, 0, len(managers))
	for _, m := range managers {
		ids = append(ids, m.PropertyID)
	}
	return ids, nil
}

// List returns the caller's jobs, newest first.
func (s *Job) List(ctx context.Context, callerID uuid.UUID) ([]JobSummary, error) {
	repos := s.store.Repos()
	if _, err := managedProperties(ctx, repos, callerID); err != nil {
		return nil, err
	}

	jobs, err := repos.Jobs.ListByPoster(ctx, callerID)
	if err != nil {
		return nil, err
	}
	out := make([]JobSummary, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobSummary{ID: j.ID, JobNumber: j.JobNumber, Description: j.Description, PostedDate: j.PostedOn})
	}
	return out, nil
}

// Details returns ErrJobNotFound unless callerID posted the job.
func (s *Job) Details(ctx context.Context, callerID, jobID uuid.UUID) (*JobDetails, error) {
	repos := s.store.Repos()

	job, err := repos.Jobs.GetForUser(ctx, callerID, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	details := &JobDetails{
		ID:          job.ID,
		JobNumber:   job.JobNumber,
		Description: job.Description,
		PostedOn:    job.PostedOn,
		Property:    PropertyRef{ID: job.PropertyID},
	}

	property, err := repos.Properties.GetByID(ctx, job.PropertyID)
	if err != nil {
		return nil, err
	}
	if property != nil {
		details.Property.Address = property.Address
	}

	ids := []uuid.UUID{job.PropertyID}
	owners, err := repos.Contacts.OwnersByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	details.OwnerDetails = make([]ContactDetails, 0, len(owners))
	for _, o := range owners {
		details.OwnerDetails = append(details.OwnerDetails, ContactDetails{ID: o.ID, UserID: o.UserID, FirstName: o.FirstName, LastName: o.LastName})
	}

	tenants, err := repos.Contacts.TenantsByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	details.TenantDetails = make([]ContactDetails, 0, len(tenants))
	for _, t := range tenants {
		details.TenantDetails = append(details.TenantDetails, ContactDetails{ID: t.ID, UserID: t.UserID, FirstName: t.FirstName, LastName: t.LastName})
	}

	jobType, err := repos.JobTypes.GetByID(ctx, job.TypeID)
	if err != nil {
		return nil, err
	}
	if jobType != nil {
		details.JobType = *jobType
	}

	provider, err := repos.ServiceProviders.GetByID(ctx, job.ServiceProviderID)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		details.Provider = *provider
	}

	return details, nil
}

// Create validates the request against the caller's managed properties,
// then inserts the job under a freshly drawn job number.
//
// The provider and job type only have to exist. Capabilities declared at
// registration drive the provider lookup by job type; they are not a gate
// here, since a provider may register without declaring any.
//
// Job numbers are six random digits guarded by a UNIQUE constraint rather
// than a sequence, so two postings can draw the same number. The insert is
// the arbiter: a duplicate-key error means draw again, up to maxAttempts.
// Anything else is a real failure and is returned as is.
func (s *Job) Create(ctx context.Context, callerID uuid.UUID, in CreateJobInput) (*PostedJob, error) {
	log := observ.FromContext(ctx, s.logger)
	repos := s.store.Repos()

	managed, err := managedProperties(ctx, repos, callerID)
	if err != nil {
		return nil, err
	}

	v := &ValidationError{}
	propertyID := parseID(v, "propertyId", in.PropertyID)
	typeID := parseID(v, "type", in.TypeID)
	providerID := parseID(v, "serviceProviderId", in.ServiceProviderID)
	description := strings.TrimSpace(in.Description)
	if description == "" {
		v.Add("description", "description is required")
	}

	if propertyID != uuid.Nil {
		if !containsID(managed, propertyID) {
			v.Add("propertyId", "property is not managed by you")
		} else if p, err := repos.Properties.GetByID(ctx, propertyID); err != nil {
			return nil, err
		} else if p == nil {
			v.Add("propertyId", "property does not exist")
		}
	}

	var jobType *models.JobType
	if typeID != uuid.Nil {
		if jobType, err = repos.JobTypes.GetByID(ctx, typeID); err != nil {
			return nil, err
		}
		if jobType == nil {
			v.Add("type", "job type does not exist")
		}
	}

	var provider *models.ServiceProvider
	if providerID != uuid.Nil {
		if provider, err = repos.ServiceProviders.GetByID(ctx, providerID); err != nil {
			return nil, err
		}
		if provider == nil {
			v.Add("serviceProviderId", "service provider does not exist")
		}
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:                uuid.New(),
		PropertyID:        propertyID,
		PostedByUserID:    callerID,
		TypeID:            jobType.ID,
		ServiceProviderID: provider.ID,
		Description:       description,
		PostedOn:          s.now(),
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		job.JobNumber = s.newNumber()

		err := repos.Jobs.Create(ctx, job)
		if err == nil {
			s.metrics.JobPosted()
			log.Info("job posted",
				zap.String("job_id", job.ID.String()),
				zap.Int("job_number", job.JobNumber),
				zap.Int("attempt", attempt),
			)
			return &PostedJob{
				ID:                job.ID,
				ServiceProviderID: job.ServiceProviderID,
				JobNumber:         job.JobNumber,
				Name:              jobType.Name,
				Description:       job.Description,
			}, nil
		}
		if !errors.Is(err, repository.ErrDuplicateJobNumber) {
			return nil, err
		}

		s.metrics.JobNumberCollision()
		log.Warn("job number collision", zap.Int("job_number", job.JobNumber), zap.Int("attempt", attempt))
	}

	log.Error("job number space exhausted", zap.Int("attempts", s.maxAttempts))
	return nil, ErrJobNumberExhausted
}

// Types returns every job type ordered by name, read through the cache.
// Cache failures fall back to the store.
func (s *Job) Types(ctx context.Context) ([]models.JobType, error) {
	log := observ.FromContext(ctx, s.logger)

	types, ok, err := s.jobTypes.Get(ctx)
	switch {
	case err != nil:
		s.metrics.JobTypeCache("error")
		log.Warn("job type cache read failed", zap.Error(err))
	case ok:
		s.metrics.JobTypeCache("hit")
		return types, nil
	default:
		s.metrics.JobTypeCache("miss")
	}

	types, err = s.store.Repos().JobTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.jobTypes.Set(ctx, types); err != nil {
		log.Warn("job type cache write failed", zap.Error(err))
	}
	return types, nil
}

// SeedTypes inserts the named job types that are missing and drops the
// cached catalogue when anything was added.
func (s *Job) SeedTypes(ctx context.Context, names []string) (int, error) {
	added, err := s.store.Repos().JobTypes.EnsureNames(ctx, names)
	if err != nil {
		return added, err
	}
	if added > 0 {
		if err := s.jobTypes.Invalidate(ctx); err != nil {
			return added, err
		}
	}
	return added, nil
}

func parseID(v *ValidationError, field, raw string) uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.Add(field, field+" is required")
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		v.Add(field, field+" must be a valid id")
		return uuid.Nil
	}
	return id
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
