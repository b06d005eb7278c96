package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contalink/erp-sync-service/common/models"
)

// RegistryConfigRepository is a PostgreSQL implementation of RegistryConfigService
type RegistryConfigRepository struct {
	pool *pgxpool.Pool
}

// NewRegistryConfigRepository creates a new PostgreSQL RegistryConfigRepository
func NewRegistryConfigRepository(pool *pgxpool.Pool) RegistryConfigService {
	return &RegistryConfigRepository{
		pool: pool,
	}
}

// GetActive returns the most recently updated active configuration
func (r *RegistryConfigRepository) GetActive(ctx context.Context) (*models.RegistryConfig, error) {
	var cfg models.RegistryConfig

	err := r.pool.QueryRow(ctx, `
		SELECT id, base_url, api_key, is_active, updated_at
		FROM registry_configs
		WHERE is_active
		ORDER BY updated_at DESC
		LIMIT 1`).Scan(&cfg.ID, &cfg.BaseURL, &cfg.ApiKey, &cfg.Active, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying active registry config: %w", err)
	}

	return &cfg, nil
}

// Save upserts the single registry configuration row
func (r *RegistryConfigRepository) Save(ctx context.Context, baseURL, apiKey string) (models.RegistryConfig, error) {
	var cfg models.RegistryConfig

	err := r.pool.QueryRow(ctx, `
		INSERT INTO registry_configs (base_url, api_key, is_active, updated_at)
		VALUES ($1, $2, TRUE, now())
		ON CONFLICT (base_url) DO UPDATE
		SET api_key = EXCLUDED.api_key, is_active = TRUE, updated_at = now()
		RETURNING id, base_url, api_key, is_active, updated_at`,
		baseURL, apiKey).Scan(&cfg.ID, &cfg.BaseURL, &cfg.ApiKey, &cfg.Active, &cfg.UpdatedAt)
	if err != nil {
		return models.RegistryConfig{}, fmt.Errorf("saving registry config: %w", err)
	}

	return cfg, nil
}
