package syncer

import "errors"

var (
	// ErrRegistryNotConfigured is returned when a batch is requested before
	// the registry API configuration has been saved.
	ErrRegistryNotConfigured = errors.New("registry API is not configured")

	// ErrSyncDisabled is returned when a batch is requested for a company
	// whose synchronization flag is off.
	ErrSyncDisabled = errors.New("synchronization is not enabled for this company")

	// ErrCompanyNotFound is returned when the requested company does not
	// exist in the legacy store.
	ErrCompanyNotFound = errors.New("company not found in the legacy store")
)
