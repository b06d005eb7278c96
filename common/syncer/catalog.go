package syncer

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/contalink/erp-sync-service/common/legacy"
	"github.com/contalink/erp-sync-service/common/models"
	"github.com/contalink/erp-sync-service/common/services"
)

// SyncStateFilter restricts a company listing by the local sync-enabled flag.
type SyncStateFilter string

const (
	SyncFilterAll      SyncStateFilter = ""
	SyncFilterEnabled  SyncStateFilter = "enabled"
	SyncFilterDisabled SyncStateFilter = "disabled"
)

// CompanyListFilter holds the company listing filters exposed over HTTP.
type CompanyListFilter struct {
	Code         int
	NameContains string
	TaxID        string
	Sync         SyncStateFilter
}

// Catalog answers the read-side listing queries, joining legacy rows with
// locally persisted sync state.
type Catalog struct {
	gateway  legacy.Gateway
	flags    services.CompanyFlagService
	statuses services.SyncStatusService
}

// NewCatalog creates a Catalog with explicit collaborators.
func NewCatalog(gateway legacy.Gateway, flags services.CompanyFlagService, statuses services.SyncStatusService) *Catalog {
	return &Catalog{
		gateway:  gateway,
		flags:    flags,
		statuses: statuses,
	}
}

// ListCompanies pages through companies, applying the optional legacy-side
// filters and the sync flag filter, and enriches each row with its local
// sync-enabled state.
func (c *Catalog) ListCompanies(ctx context.Context, f CompanyListFilter, page, pageSize int) ([]models.Company, int64, error) {
	gf := legacy.CompanyFilter{
		Code:         f.Code,
		NameContains: f.NameContains,
		TaxID:        f.TaxID,
	}

	switch f.Sync {
	case SyncFilterEnabled, SyncFilterDisabled:
		codes, err := c.flags.ListCodesByEnabled(ctx, f.Sync == SyncFilterEnabled)
		if err != nil {
			return nil, 0, fmt.Errorf("loading sync-filtered company codes: %w", err)
		}
		if len(codes) == 0 {
			return []models.Company{}, 0, nil
		}
		gf.CodeIn = codes
	}

	result, err := c.gateway.ListCompanies(ctx, gf, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	companies := lo.Map(result.Rows, func(row legacy.Record, _ int) models.Company {
		return models.Company{
			Code:  row.Int("codi_emp"),
			Name:  row.Str("razao_emp"),
			TaxID: row.Str("cgce_emp"),
		}
	})

	if len(companies) > 0 {
		codes := lo.Map(companies, func(co models.Company, _ int) int { return co.Code })
		enabled, err := c.flags.GetMany(ctx, codes)
		if err != nil {
			return nil, 0, fmt.Errorf("loading company sync flags: %w", err)
		}
		for i := range companies {
			companies[i].SyncEnabled = enabled[companies[i].Code]
		}
	}

	return companies, result.Total, nil
}

// GetCompany fetches one company and its local sync flag. Returns nil when
// the company does not exist in the legacy store.
func (c *Catalog) GetCompany(ctx context.Context, code int) (*models.Company, error) {
	company, err := c.gateway.GetCompany(ctx, code)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}

	flag, err := c.flags.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("loading company sync flag: %w", err)
	}
	company.SyncEnabled = flag != nil && flag.Enabled

	return company, nil
}

// ListSuppliers pages through one company's suppliers, enriching each row
// with its persisted synchronization status. Suppliers with no status row
// report NOT_SYNCED.
func (c *Catalog) ListSuppliers(ctx context.Context, companyCode int, f legacy.SupplierFilter, page, pageSize int) ([]models.Supplier, int64, error) {
	result, err := c.gateway.ListSuppliers(ctx, companyCode, f, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	suppliers := lo.Map(result.Rows, func(row legacy.Record, _ int) models.Supplier {
		return models.Supplier{
			CompanyCode:       companyCode,
			Code:              row.Str("codi_for"),
			Name:              row.Str("nome_for"),
			TaxID:             row.Str("cgce_for"),
			LedgerAccountCode: row.Str("codi_cta"),
			SyncState:         models.SyncStateNotSynced,
		}
	})

	if len(suppliers) > 0 {
		codes := lo.Map(suppliers, func(s models.Supplier, _ int) string { return s.Code })
		statuses, err := c.statuses.GetMany(ctx, companyCode, codes)
		if err != nil {
			return nil, 0, fmt.Errorf("loading supplier sync statuses: %w", err)
		}
		for i := range suppliers {
			if status, ok := statuses[suppliers[i].Code]; ok {
				suppliers[i].SyncState = status.State
				suppliers[i].SyncDetail = status.LastResponseDetail
			}
		}
	}

	return suppliers, result.Total, nil
}

// ListCustomers pages through one company's customers.
func (c *Catalog) ListCustomers(ctx context.Context, companyCode int, page, pageSize int) ([]models.Customer, int64, error) {
	result, err := c.gateway.ListCustomers(ctx, companyCode, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	customers := lo.Map(result.Rows, func(row legacy.Record, _ int) models.Customer {
		return models.Customer{
			CompanyCode: companyCode,
			Code:        row.Str("codi_cli"),
			Name:        row.Str("nome_cli"),
			TaxID:       row.Str("cgce_cli"),
		}
	})

	return customers, result.Total, nil
}

// ListLedgerAccounts pages through the chart of accounts.
func (c *Catalog) ListLedgerAccounts(ctx context.Context, nameContains string, page, pageSize int) ([]models.LedgerAccount, int64, error) {
	result, err := c.gateway.ListLedgerAccounts(ctx, nameContains, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	accounts := lo.Map(result.Rows, func(row legacy.Record, _ int) models.LedgerAccount {
		return models.LedgerAccount{
			Code:           row.Str("codi_cta"),
			Name:           row.Str("nome_cta"),
			Classification: row.Str("clas_cta"),
		}
	})

	return accounts, result.Total, nil
}

// ListAccumulators pages through one company's accumulators.
func (c *Catalog) ListAccumulators(ctx context.Context, companyCode int, page, pageSize int) ([]models.Accumulator, int64, error) {
	result, err := c.gateway.ListAccumulators(ctx, companyCode, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	accumulators := lo.Map(result.Rows, func(row legacy.Record, _ int) models.Accumulator {
		return models.Accumulator{
			CompanyCode: companyCode,
			Code:        row.Str("codi_acu"),
			Name:        row.Str("nome_acu"),
		}
	})

	return accumulators, result.Total, nil
}
