//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/db"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("propman"),
		tcpostgres.WithUsername("propman"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := db.New(ctx, connStr, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(database.Close)

	require.NoError(t, database.Migrate(ctx))
	require.NoError(t, database.Migrate(ctx), "migrate is idempotent")

	return NewStore(database.Pool())
}

func TestStoreAgainstPostgres(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	repos := store.Repos()

	added, err := repos.JobTypes.EnsureNames(ctx, db.DefaultJobTypes)
	require.NoError(t, err)
	assert.Equal(t, len(db.DefaultJobTypes), added)
	added, err = repos.JobTypes.EnsureNames(ctx, db.DefaultJobTypes)
	require.NoError(t, err)
	assert.Zero(t, added)

	types, err := repos.JobTypes.List(ctx)
	require.NoError(t, err)
	plumbing := types[0]
	for _, jt := range types {
		if jt.Name == "Plumbing" {
			plumbing = jt
		}
	}

	manager := &models.User{ID: uuid.New(), Username: "pm1", Email: "pm1@example.com", PasswordHash: "x", Role: models.RolePropertyManager}
	property := &models.Property{ID: uuid.New(), Address: "1 Main St"}
	providerUser := &models.User{ID: uuid.New(), Username: "fixit", Email: "fixit@example.com", PasswordHash: "x", Role: models.RoleServiceProvider}
	provider := &models.ServiceProvider{ID: uuid.New(), UserID: providerUser.ID, CompanyName: "Fixit Ltd", Email: providerUser.Email}

	err = store.WithinTx(ctx, func(tx repository.Repositories) error {
		for _, u := range []*models.User{manager, providerUser} {
			if err := tx.Users.Create(ctx, u); err != nil {
				return err
			}
		}
		if err := tx.Properties.Create(ctx, property); err != nil {
			return err
		}
		if err := tx.Contacts.AddManager(ctx, &models.PropertyManager{
			ID: uuid.New(), UserID: manager.ID, PropertyID: property.ID, FirstName: "Pat", LastName: "Morgan", Email: manager.Email,
		}); err != nil {
			return err
		}
		if err := tx.ServiceProviders.Create(ctx, provider); err != nil {
			return err
		}
		return tx.ServiceProviders.AddJobType(ctx, &models.ServiceProviderJobType{
			ID: uuid.New(), JobTypeID: plumbing.ID, ServiceProviderID: provider.ID,
		})
	})
	require.NoError(t, err)

	t.Run("login lookup is case insensitive", func(t *testing.T) {
		u, err := repos.Users.GetByLogin(ctx, " PM1@Example.COM ")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, manager.ID, u.ID)
	})

	t.Run("duplicate username maps to sentinel", func(t *testing.T) {
		err := repos.Users.Create(ctx, &models.User{ID: uuid.New(), Username: "PM1", Email: "other@example.com", PasswordHash: "x", Role: models.RolePropertyOwner})
		assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
	})

	t.Run("failed transaction leaves no rows", func(t *testing.T) {
		ghost := &models.User{ID: uuid.New(), Username: "ghost", Email: "ghost@example.com", PasswordHash: "x", Role: models.RoleServiceProvider}
		boom := errors.New("boom")
		err := store.WithinTx(ctx, func(tx repository.Repositories) error {
			if err := tx.Users.Create(ctx, ghost); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		u, err := repos.Users.GetByID(ctx, ghost.ID)
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("job numbers are unique", func(t *testing.T) {
		job := func() *models.Job {
			return &models.Job{
				ID: uuid.New(), JobNumber: 424242, PropertyID: property.ID, PostedByUserID: manager.ID,
				TypeID: plumbing.ID, ServiceProviderID: provider.ID, Description: "tap", PostedOn: time.Now().UTC(),
			}
		}
		first := job()
		require.NoError(t, repos.Jobs.Create(ctx, first))
		assert.ErrorIs(t, repos.Jobs.Create(ctx, job()), repository.ErrDuplicateJobNumber)

		got, err := repos.Jobs.GetForUser(ctx, manager.ID, first.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 424242, got.JobNumber)

		got, err = repos.Jobs.GetForUser(ctx, providerUser.ID, first.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("providers by job type compare as text", func(t *testing.T) {
		list, err := repos.ServiceProviders.ListByJobType(ctx, plumbing.ID.String())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, provider.ID, list[0].ID)

		list, err = repos.ServiceProviders.ListByJobType(ctx, "not-a-uuid")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("missing reference maps to foreign key sentinel", func(t *testing.T) {
		err := repos.Contacts.AddTenant(ctx, &models.PropertyTenant{ID: uuid.New(), UserID: manager.ID, PropertyID: uuid.New()})
		assert.ErrorIs(t, err, repository.ErrForeignKey)
	})
}
