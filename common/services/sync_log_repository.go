package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contalink/erp-sync-service/common/models"
)

// SyncLogRepository is a PostgreSQL implementation of SyncLogService
type SyncLogRepository struct {
	pool *pgxpool.Pool
}

// NewSyncLogRepository creates a new PostgreSQL SyncLogRepository
func NewSyncLogRepository(pool *pgxpool.Pool) SyncLogService {
	return &SyncLogRepository{
		pool: pool,
	}
}

// Insert stores one log row
func (r *SyncLogRepository) Insert(ctx context.Context, level, message, details string) error {
	if details == "" {
		details = "{}"
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO sync_logs (id, level, message, details, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		uuid.NewString(), level, message, details)
	if err != nil {
		return fmt.Errorf("inserting sync log: %w", err)
	}
	return nil
}

// Recent returns the latest limit log rows, newest first
func (r *SyncLogRepository) Recent(ctx context.Context, limit int) ([]models.SyncLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, level, message, details, created_at
		FROM sync_logs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync logs: %w", err)
	}
	defer rows.Close()

	logs := []models.SyncLog{}
	for rows.Next() {
		var entry models.SyncLog
		if err := rows.Scan(&entry.ID, &entry.Level, &entry.Message, &entry.Details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning sync log: %w", err)
		}
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}
