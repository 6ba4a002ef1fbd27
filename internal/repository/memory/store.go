// Package memory is an in-process implementation of the repository
// interfaces. It enforces the same uniqueness and reference rules as the
// Postgres schema and is used by tests and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/repository"
)

type state struct {
	users      map[uuid.UUID]models.User
	properties map[uuid.UUID]models.Property
	managers   []models.Contact
	owners     []models.Contact
	tenants    []models.Contact
	providers  map[uuid.UUID]models.ServiceProvider
	offerings  []models.ServiceProviderJobType
	jobTypes   map[uuid.UUID]models.JobType
	jobs       map[uuid.UUID]models.Job
}

func newState() *state {
	return &state{
		users:      make(map[uuid.UUID]models.User),
		properties: make(map[uuid.UUID]models.Property),
		providers:  make(map[uuid.UUID]models.ServiceProvider),
		jobTypes:   make(map[uuid.UUID]models.JobType),
		jobs:       make(map[uuid.UUID]models.Job),
	}
}

func (st *state) clone() *state {
	return &state{
		users:      maps.Clone(st.users),
		properties: maps.Clone(st.properties),
		managers:   slices.Clone(st.managers),
		owners:     slices.Clone(st.owners),
		tenants:    slices.Clone(st.tenants),
		providers:  maps.Clone(st.providers),
		offerings:  slices.Clone(st.offerings),
		jobTypes:   maps.Clone(st.jobTypes),
		jobs:       maps.Clone(st.jobs),
	}
}

// accessor runs fn with exclusive access to a state.
type accessor func(fn func(st *state) error) error

// Store guards a single state with one mutex. Transactions work on a clone
// that replaces the live state only when the callback succeeds, so a failed
// transaction leaves nothing behind.
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) locked(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) Repos() repository.Repositories {
	return reposFor(s.locked)
}

// WithinTx holds the store lock for the whole callback. fn must only use
// the repositories it is given; calling back into s.Repos() would deadlock.
//
// fn works on a clone of the state. The clone replaces the live state only
// when fn returns nil, so a failed registration leaves nothing behind, the
// same as a Postgres rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.st.clone()
	err := fn(reposFor(func(inner func(st *state) error) error {
		return inner(draft)
	}))
	if err != nil {
		return err
	}
	s.st = draft
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func reposFor(access accessor) repository.Repositories {
	return repository.Repositories{
		Users:            &UserStore{access: access},
		Properties:       &PropertyStore{access: access},
		Contacts:         &ContactStore{access: access},
		ServiceProviders: &ServiceProviderStore{access: access},
		JobTypes:         &JobTypeStore{access: access},
		Jobs:             &JobStore{access: access},
	}
}
