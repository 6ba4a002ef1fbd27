package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/propman/internal/repository"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every store runs
// unchanged inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Repos() repository.Repositories {
	return reposFor(s.pool)
}

// WithinTx runs fn inside one transaction. pgx.BeginFunc commits when fn
// returns nil and rolls back on error or panic.
//
// Why hand fn a fresh Repositories instead of a tx handle?
//   - Every store is built on DBTX, so the same query code runs against the
//     pool or the transaction. Services never see pgx types.
//   - Registration inserts a user and then its role record. If the second
//     insert fails, the user row must go too, and the caller cannot forget
//     to roll back.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(reposFor(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func reposFor(db DBTX) repository.Repositories {
	return repository.Repositories{
		Users:            NewUserStore(db),
		Properties:       NewPropertyStore(db),
		Contacts:         NewContactStore(db),
		ServiceProviders: NewServiceProviderStore(db),
		JobTypes:         NewJobTypeStore(db),
		Jobs:             NewJobStore(db),
	}
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// translate maps constraint violations onto repository sentinels and wraps
// everything else with op.
func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			switch pgErr.ConstraintName {
			case "users_normalized_username_key":
				return fmt.Errorf("%s: %w", op, repository.ErrDuplicateUsername)
			case "users_normalized_email_key":
				return fmt.Errorf("%s: %w", op, repository.ErrDuplicateEmail)
			case "properties_normalized_address_key":
				return fmt.Errorf("%s: %w", op, repository.ErrDuplicateAddress)
			case "property_managers_property_key":
				return fmt.Errorf("%s: %w", op, repository.ErrPropertyManaged)
			case "jobs_job_number_key":
				return fmt.Errorf("%s: %w", op, repository.ErrDuplicateJobNumber)
			}
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, repository.ErrForeignKey, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
