package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/models"
)

var (
	// ErrDuplicateUsername and ErrDuplicateEmail are returned when a user
	// insert loses a race against another registration.
	ErrDuplicateUsername = errors.New("username already registered")
	ErrDuplicateEmail    = errors.New("email already registered")

	// ErrDuplicateAddress is returned when a property with the same
	// normalized address already exists.
	ErrDuplicateAddress = errors.New("property address already registered")

	// ErrPropertyManaged is returned when a second manager record is added
	// for a property. Each property has at most one manager.
	ErrPropertyManaged = errors.New("property already has a manager")

	// ErrDuplicateJobNumber is returned by JobRepository.Create when the
	// job number is already taken. Callers draw a new number and retry.
	ErrDuplicateJobNumber = errors.New("job number already in use")

	// ErrForeignKey is returned when an insert references a missing row.
	ErrForeignKey = errors.New("referenced record does not exist")
)

// Single-row getters return nil, nil when nothing matches.
// List methods return an empty slice, never nil.

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByLogin matches either the normalized username or the normalized email.
	GetByLogin(ctx context.Context, login string) (*models.User, error)

	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
}

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	GetByAddress(ctx context.Context, address string) (*models.Property, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Property, error)
}

// ContactRepository covers the three property role tables, which share a shape.
type ContactRepository interface {
	// AddManager returns ErrPropertyManaged when the property already has one.
	AddManager(ctx context.Context, c *models.PropertyManager) error
	AddOwner(ctx context.Context, c *models.PropertyOwner) error
	AddTenant(ctx context.Context, c *models.PropertyTenant) error

	ManagersByUser(ctx context.Context, userID uuid.UUID) ([]models.PropertyManager, error)
	OwnerByUser(ctx context.Context, userID uuid.UUID) (*models.PropertyOwner, error)
	TenantByUser(ctx context.Context, userID uuid.UUID) (*models.PropertyTenant, error)

	OwnersByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]models.PropertyOwner, error)
	TenantsByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]models.PropertyTenant, error)
}

type ServiceProviderRepository interface {
	Create(ctx context.Context, sp *models.ServiceProvider) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceProvider, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.ServiceProvider, error)

	AddJobType(ctx context.Context, link *models.ServiceProviderJobType) error

	// ListByJobType compares jobType against the stored job type ids as text,
	// so an unknown or malformed value yields an empty list.
	ListByJobType(ctx context.Context, jobType string) ([]models.ServiceProvider, error)
}

type JobTypeRepository interface {
	List(ctx context.Context) ([]models.JobType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobType, error)

	// EnsureNames inserts the named job types that do not exist yet and
	// reports how many were added.
	EnsureNames(ctx context.Context, names []string) (int, error)
}

type JobRepository interface {
	// Create inserts the job. It returns ErrDuplicateJobNumber when the job
	// number collides with an existing job.
	Create(ctx context.Context, j *models.Job) error

	// GetForUser returns the job only if it was posted by userID.
	GetForUser(ctx context.Context, userID, jobID uuid.UUID) (*models.Job, error)

	// ListByPoster returns the user's jobs, newest first.
	ListByPoster(ctx context.Context, userID uuid.UUID) ([]models.Job, error)
}

// Repositories bundles every store so a unit of work can be handed out as
// one value, either over the shared pool or inside a transaction.
type Repositories struct {
	Users            UserRepository
	Properties       PropertyRepository
	Contacts         ContactRepository
	ServiceProviders ServiceProviderRepository
	JobTypes         JobTypeRepository
	Jobs             JobRepository
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// Store is what the services are constructed from.
type Store interface {
	Transactor
	Repos() Repositories
	Ping(ctx context.Context) error
}
