package models

import "time"

// SupplierSyncState is the persisted outcome of the latest submission attempt
// for one (company, supplier) pair.
type SupplierSyncState string

const (
	// SyncStateNotSynced is the implicit state of a pair with no status row.
	SyncStateNotSynced SupplierSyncState = "NOT_SYNCED"
	// SyncStateInProgress marks a pair that has been handed to the scheduler.
	SyncStateInProgress SupplierSyncState = "IN_PROGRESS"
	// SyncStateSynced marks a pair the registry accepted. Terminal.
	SyncStateSynced SupplierSyncState = "SYNCED"
	// SyncStateError marks a failed attempt of any kind. Re-eligible.
	SyncStateError SupplierSyncState = "ERROR"
)

// Eligible reports whether a pair in this state may be enqueued again.
func (s SupplierSyncState) Eligible() bool {
	return s == SyncStateNotSynced || s == SyncStateError
}

// SupplierSyncStatus mirrors one row in the supplier_sync_status table.
// Unique key = (CompanyCode, SupplierCode); upserted on every attempt.
type SupplierSyncStatus struct {
	ID                 int64             `json:"id"`
	CompanyCode        int               `json:"company_code"`
	SupplierCode       string            `json:"supplier_code"`
	State              SupplierSyncState `json:"state"`
	LastAttemptAt      *time.Time        `json:"last_attempt_at"`
	LastResponseDetail string            `json:"last_response_detail"`
	ExternalRegistryID string            `json:"external_registry_id"`
}

// CompanySyncFlag mirrors one row in the company_sync_flags table.
// Governs whether a company's suppliers are eligible for batch submission.
type CompanySyncFlag struct {
	CompanyCode  int        `json:"company_code"`
	Enabled      bool       `json:"enabled"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
}

// RegistryConfig mirrors one row in the registry_configs table. The most
// recently updated active row is the effective configuration.
type RegistryConfig struct {
	ID        int64     `json:"id"`
	BaseURL   string    `json:"base_url"`
	ApiKey    string    `json:"api_key"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncLog mirrors one row in the sync_logs table.
type SyncLog struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
