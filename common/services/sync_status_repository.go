package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contalink/erp-sync-service/common/models"
)

// SyncStatusRepository is a PostgreSQL implementation of SyncStatusService.
// One row per (company, supplier) pair, upserted on every attempt.
// Concurrent upserts for the same pair are last-write-wins.
type SyncStatusRepository struct {
	pool *pgxpool.Pool
}

// NewSyncStatusRepository creates a new PostgreSQL SyncStatusRepository
func NewSyncStatusRepository(pool *pgxpool.Pool) SyncStatusService {
	return &SyncStatusRepository{
		pool: pool,
	}
}

// Get returns the status row for one (company, supplier) pair, or nil
func (r *SyncStatusRepository) Get(ctx context.Context, companyCode int, supplierCode string) (*models.SupplierSyncStatus, error) {
	var status models.SupplierSyncStatus

	err := r.pool.QueryRow(ctx, `
		SELECT id, company_code, supplier_code, state, last_attempt_at, last_response_detail, external_registry_id
		FROM supplier_sync_status
		WHERE company_code = $1 AND supplier_code = $2`,
		companyCode, supplierCode).
		Scan(&status.ID, &status.CompanyCode, &status.SupplierCode, &status.State,
			&status.LastAttemptAt, &status.LastResponseDetail, &status.ExternalRegistryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying supplier sync status: %w", err)
	}

	return &status, nil
}

// GetMany maps supplier codes of one company to their status rows
func (r *SyncStatusRepository) GetMany(ctx context.Context, companyCode int, supplierCodes []string) (map[string]models.SupplierSyncStatus, error) {
	result := make(map[string]models.SupplierSyncStatus, len(supplierCodes))
	if len(supplierCodes) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, company_code, supplier_code, state, last_attempt_at, last_response_detail, external_registry_id
		FROM supplier_sync_status
		WHERE company_code = $1 AND supplier_code = ANY($2)`,
		companyCode, supplierCodes)
	if err != nil {
		return nil, fmt.Errorf("querying supplier sync statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.SupplierSyncStatus
		if err := rows.Scan(&status.ID, &status.CompanyCode, &status.SupplierCode, &status.State,
			&status.LastAttemptAt, &status.LastResponseDetail, &status.ExternalRegistryID); err != nil {
			return nil, fmt.Errorf("scanning supplier sync status: %w", err)
		}
		result[status.SupplierCode] = status
	}

	return result, rows.Err()
}

// upsertSupplierSyncStatusSQL targets the (company_code, supplier_code)
// unique constraint, so repeated attempts for one pair rewrite the same row
// with a fresh last_attempt_at. An empty external id never clobbers a stored
// one.
const upsertSupplierSyncStatusSQL = `
	INSERT INTO supplier_sync_status
		(company_code, supplier_code, state, last_attempt_at, last_response_detail, external_registry_id)
	VALUES ($1, $2, $3, now(), $4, $5)
	ON CONFLICT (company_code, supplier_code) DO UPDATE
	SET state = EXCLUDED.state,
	    last_attempt_at = EXCLUDED.last_attempt_at,
	    last_response_detail = EXCLUDED.last_response_detail,
	    external_registry_id = CASE
	        WHEN EXCLUDED.external_registry_id <> '' THEN EXCLUDED.external_registry_id
	        ELSE supplier_sync_status.external_registry_id
	    END
	RETURNING id, company_code, supplier_code, state, last_attempt_at, last_response_detail, external_registry_id`

// stateForOutcome maps an attempt result onto the stored state. Only the two
// terminal attempt states reach the store.
func stateForOutcome(succeeded bool) models.SupplierSyncState {
	if succeeded {
		return models.SyncStateSynced
	}
	return models.SyncStateError
}

// Upsert records an attempt outcome for one pair, stamping last_attempt_at
func (r *SyncStatusRepository) Upsert(ctx context.Context, companyCode int, supplierCode string, succeeded bool, detail any, externalID string) (models.SupplierSyncStatus, error) {
	var status models.SupplierSyncStatus
	err := r.pool.QueryRow(ctx, upsertSupplierSyncStatusSQL,
		companyCode, supplierCode, stateForOutcome(succeeded), serializeDetail(detail), externalID).
		Scan(&status.ID, &status.CompanyCode, &status.SupplierCode, &status.State,
			&status.LastAttemptAt, &status.LastResponseDetail, &status.ExternalRegistryID)
	if err != nil {
		return models.SupplierSyncStatus{}, fmt.Errorf("upserting supplier sync status: %w", err)
	}

	return status, nil
}

// serializeDetail stores strings as-is and everything else as JSON
func serializeDetail(detail any) string {
	switch t := detail.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	}
}
