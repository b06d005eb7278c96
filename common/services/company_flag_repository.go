package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contalink/erp-sync-service/common/models"
)

// CompanyFlagRepository is a PostgreSQL implementation of CompanyFlagService
type CompanyFlagRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyFlagRepository creates a new PostgreSQL CompanyFlagRepository
func NewCompanyFlagRepository(pool *pgxpool.Pool) CompanyFlagService {
	return &CompanyFlagRepository{
		pool: pool,
	}
}

// Get returns the flag row for a company, or nil when never toggled
func (r *CompanyFlagRepository) Get(ctx context.Context, companyCode int) (*models.CompanySyncFlag, error) {
	var flag models.CompanySyncFlag

	err := r.pool.QueryRow(ctx, `
		SELECT company_code, enabled, last_synced_at
		FROM company_sync_flags
		WHERE company_code = $1`, companyCode).
		Scan(&flag.CompanyCode, &flag.Enabled, &flag.LastSyncedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying company sync flag: %w", err)
	}

	return &flag, nil
}

// GetMany maps company codes to their enabled state, defaulting to false
func (r *CompanyFlagRepository) GetMany(ctx context.Context, companyCodes []int) (map[int]bool, error) {
	result := make(map[int]bool, len(companyCodes))
	for _, code := range companyCodes {
		result[code] = false
	}
	if len(companyCodes) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT company_code, enabled
		FROM company_sync_flags
		WHERE company_code = ANY($1)`, companyCodes)
	if err != nil {
		return nil, fmt.Errorf("querying company sync flags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code int
		var enabled bool
		if err := rows.Scan(&code, &enabled); err != nil {
			return nil, fmt.Errorf("scanning company sync flag: %w", err)
		}
		result[code] = enabled
	}

	return result, rows.Err()
}

// ListEnabledCodes returns the codes of all companies with sync enabled
func (r *CompanyFlagRepository) ListEnabledCodes(ctx context.Context) ([]int, error) {
	return r.ListCodesByEnabled(ctx, true)
}

// ListCodesByEnabled returns the codes of companies whose flag matches enabled
func (r *CompanyFlagRepository) ListCodesByEnabled(ctx context.Context, enabled bool) ([]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT company_code
		FROM company_sync_flags
		WHERE enabled = $1
		ORDER BY company_code`, enabled)
	if err != nil {
		return nil, fmt.Errorf("querying company codes by flag: %w", err)
	}
	defer rows.Close()

	codes := []int{}
	for rows.Next() {
		var code int
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning company code: %w", err)
		}
		codes = append(codes, code)
	}

	return codes, rows.Err()
}

// Toggle creates or updates the flag row for a company
func (r *CompanyFlagRepository) Toggle(ctx context.Context, companyCode int, enable bool) (models.CompanySyncFlag, bool, error) {
	var flag models.CompanySyncFlag
	var created bool

	err := r.pool.QueryRow(ctx, `
		INSERT INTO company_sync_flags (company_code, enabled)
		VALUES ($1, $2)
		ON CONFLICT (company_code) DO UPDATE SET enabled = EXCLUDED.enabled
		RETURNING company_code, enabled, last_synced_at, (xmax = 0)`,
		companyCode, enable).
		Scan(&flag.CompanyCode, &flag.Enabled, &flag.LastSyncedAt, &created)
	if err != nil {
		return models.CompanySyncFlag{}, false, fmt.Errorf("toggling company sync flag: %w", err)
	}

	return flag, created, nil
}

// TouchLastSynced stamps the company's last batch submission time
func (r *CompanyFlagRepository) TouchLastSynced(ctx context.Context, companyCode int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE company_sync_flags
		SET last_synced_at = now()
		WHERE company_code = $1`, companyCode)
	if err != nil {
		return fmt.Errorf("stamping last synced time: %w", err)
	}
	return nil
}
