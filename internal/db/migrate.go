package db

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

// migrationLockID keys the advisory lock that serializes concurrent migrate runs.
const migrationLockID int64 = 0x70726f706d616e // "propman"

// Schema returns the DDL applied by Migrate.
func Schema() string {
	return schemaSQL
}

// Migrate applies the embedded schema. The statements are idempotent, so
// running it against an up-to-date database is a no-op.
//
// The advisory lock is session scoped, so lock, DDL and unlock all run on
// one dedicated connection.
func (db *DB) Migrate(ctx context.Context) error {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire migration connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		var released bool
		if err := conn.QueryRow(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", migrationLockID).Scan(&released); err != nil || !released {
			db.logger.Warn("failed to release migration lock", zap.Error(err), zap.Bool("released", released))
		}
	}()

	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	db.logger.Info("schema migrated")
	return nil
}
