package syncer

import "context"

// SupplierUnit is one independently schedulable supplier submission. It
// carries everything the worker needs; executing a unit never touches the
// legacy store again.
type SupplierUnit struct {
	CompanyCode       int    `json:"company_code"`
	CompanyTaxID      string `json:"company_tax_id"`
	CompanyName       string `json:"company_name"`
	SupplierCode      string `json:"supplier_code"`
	SupplierName      string `json:"supplier_name"`
	SupplierTaxID     string `json:"supplier_tax_id"`
	LedgerAccountCode string `json:"ledger_account_code"`
}

// Scheduler hands units to the asynchronous task runner. Implementations
// must be safe to call repeatedly for the same unit; execution is
// at-least-once and idempotent through the eligibility filter.
type Scheduler interface {
	Enqueue(ctx context.Context, unit SupplierUnit) error
}
