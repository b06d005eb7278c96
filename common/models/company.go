package models

// Company is a company row read from the legacy store, enriched with the
// local sync-enabled flag.
type Company struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	TaxID       string `json:"tax_id"`
	SyncEnabled bool   `json:"sync_enabled"`
}

// Supplier is a supplier row read from the legacy store, enriched with the
// local synchronization status.
type Supplier struct {
	CompanyCode       int               `json:"company_code"`
	Code              string            `json:"code"`
	Name              string            `json:"name"`
	TaxID             string            `json:"tax_id"`
	LedgerAccountCode string            `json:"ledger_account_code"`
	SyncState         SupplierSyncState `json:"sync_state"`
	SyncDetail        string            `json:"sync_detail,omitempty"`
}

// Customer is a customer row read from the legacy store.
type Customer struct {
	CompanyCode int    `json:"company_code"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	TaxID       string `json:"tax_id"`
}

// LedgerAccount is a chart-of-accounts row read from the legacy store.
type LedgerAccount struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Classification string `json:"classification"`
}

// Accumulator is an accumulator row read from the legacy store.
type Accumulator struct {
	CompanyCode int    `json:"company_code"`
	Code        string `json:"code"`
	Name        string `json:"name"`
}
