package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contalink/erp-sync-service/common/legacy"
)

// ConnectionConfigRepository is a PostgreSQL implementation of
// ConnectionConfigService. At most one row is active at a time; saving a
// descriptor deactivates every other row.
type ConnectionConfigRepository struct {
	pool *pgxpool.Pool
}

// NewConnectionConfigRepository creates a new PostgreSQL ConnectionConfigRepository
func NewConnectionConfigRepository(pool *pgxpool.Pool) ConnectionConfigService {
	return &ConnectionConfigRepository{
		pool: pool,
	}
}

// ActiveDescriptor returns the most recently updated active descriptor
func (r *ConnectionConfigRepository) ActiveDescriptor(ctx context.Context) (*legacy.Descriptor, error) {
	var dsn, uid, pwd, driver string

	err := r.pool.QueryRow(ctx, `
		SELECT dsn, uid, pwd, driver
		FROM odbc_connections
		WHERE is_active
		ORDER BY updated_at DESC
		LIMIT 1`).Scan(&dsn, &uid, &pwd, &driver)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying active connection config: %w", err)
	}

	d := legacy.NewDescriptor(dsn, uid, pwd, driver)
	return &d, nil
}

// Save upserts the descriptor keyed by (dsn, uid, driver) and activates it
func (r *ConnectionConfigRepository) Save(ctx context.Context, d legacy.Descriptor) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE odbc_connections SET is_active = FALSE WHERE is_active`); err != nil {
		return fmt.Errorf("deactivating previous connection configs: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO odbc_connections (dsn, uid, pwd, driver, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, now(), now())
		ON CONFLICT (dsn, uid, driver) DO UPDATE
		SET pwd = EXCLUDED.pwd, is_active = TRUE, updated_at = now()`,
		d.DSN, d.UserID.OrElse(""), d.Secret.OrElse(""), d.Driver.OrElse(""))
	if err != nil {
		return fmt.Errorf("saving connection config: %w", err)
	}

	return tx.Commit(ctx)
}
