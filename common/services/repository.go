package services

import (
	"context"

	"github.com/contalink/erp-sync-service/common/legacy"
	"github.com/contalink/erp-sync-service/common/models"
)

// ConnectionConfigService defines the interface for legacy connection
// descriptor persistence
type ConnectionConfigService interface {
	// ActiveDescriptor returns the active descriptor, or nil when none is saved
	ActiveDescriptor(ctx context.Context) (*legacy.Descriptor, error)

	// Save upserts a descriptor and marks it as the single active one
	Save(ctx context.Context, d legacy.Descriptor) error
}

// RegistryConfigService defines the interface for registry API configuration
// persistence
type RegistryConfigService interface {
	// GetActive returns the most recently updated active configuration, or nil
	GetActive(ctx context.Context) (*models.RegistryConfig, error)

	// Save upserts the configuration and returns the stored row
	Save(ctx context.Context, baseURL, apiKey string) (models.RegistryConfig, error)
}

// CompanyFlagService defines the interface for per-company sync-enabled flags
type CompanyFlagService interface {
	// Get returns the flag row for a company, or nil when never toggled
	Get(ctx context.Context, companyCode int) (*models.CompanySyncFlag, error)

	// GetMany maps each given company code to its enabled state; codes with no
	// row map to false
	GetMany(ctx context.Context, companyCodes []int) (map[int]bool, error)

	// ListEnabledCodes returns the codes of all companies with sync enabled
	ListEnabledCodes(ctx context.Context) ([]int, error)

	// ListCodesByEnabled returns the codes of all companies whose flag matches enabled
	ListCodesByEnabled(ctx context.Context, enabled bool) ([]int, error)

	// Toggle creates or updates the flag; reports whether a row was created
	Toggle(ctx context.Context, companyCode int, enable bool) (models.CompanySyncFlag, bool, error)

	// TouchLastSynced stamps the company's last batch submission time
	TouchLastSynced(ctx context.Context, companyCode int) error
}

// SyncStatusService defines the interface for per-supplier synchronization
// status persistence
type SyncStatusService interface {
	// Get returns the status row for one (company, supplier) pair, or nil
	Get(ctx context.Context, companyCode int, supplierCode string) (*models.SupplierSyncStatus, error)

	// GetMany maps supplier codes of one company to their status rows
	GetMany(ctx context.Context, companyCode int, supplierCodes []string) (map[string]models.SupplierSyncStatus, error)

	// Upsert records an attempt outcome, setting last_attempt_at to now.
	// detail may be a string (stored as-is) or any JSON-serializable value.
	Upsert(ctx context.Context, companyCode int, supplierCode string, succeeded bool, detail any, externalID string) (models.SupplierSyncStatus, error)
}

// SyncLogService defines the interface for persisted service logs
type SyncLogService interface {
	// Insert stores one log row
	Insert(ctx context.Context, level, message, details string) error

	// Recent returns the latest limit log rows, newest first
	Recent(ctx context.Context, limit int) ([]models.SyncLog, error)
}
