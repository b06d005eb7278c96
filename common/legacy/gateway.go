package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/alexbrainman/odbc"
	"github.com/rs/zerolog/log"

	"github.com/contalink/erp-sync-service/common/models"
)

// ConfigSource yields the active connection descriptor, or nil when none is
// saved.
type ConfigSource interface {
	ActiveDescriptor(ctx context.Context) (*Descriptor, error)
}

// CompanyFilter holds the optional company listing filters. Zero values are
// omitted from the query. CodeIn non-nil restricts results to the given
// codes; an empty non-nil list short-circuits to an empty page.
type CompanyFilter struct {
	Code         int
	NameContains string
	TaxID        string
	CodeIn       []int
}

// SupplierFilter holds the optional supplier listing filters.
type SupplierFilter struct {
	Code         string
	NameContains string
	TaxID        string
}

// TestResult is the outcome of a connection test. Never an error; driver
// failures are folded into Message/Suggestion.
type TestResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	ConnString string `json:"connection_string,omitempty"`
}

// Gateway executes filtered, paginated reads against the legacy store.
type Gateway interface {
	TestConnection(ctx context.Context, d *Descriptor) TestResult

	ListCompanies(ctx context.Context, f CompanyFilter, page, pageSize int) (Page, error)
	GetCompany(ctx context.Context, code int) (*models.Company, error)
	ListSuppliers(ctx context.Context, companyCode int, f SupplierFilter, page, pageSize int) (Page, error)
	ListCustomers(ctx context.Context, companyCode int, page, pageSize int) (Page, error)
	ListLedgerAccounts(ctx context.Context, nameContains string, page, pageSize int) (Page, error)
	ListAccumulators(ctx context.Context, companyCode int, page, pageSize int) (Page, error)
}

// ODBCGateway is the database/sql ("odbc" driver) implementation of Gateway.
// Connections are opened per call and closed on every exit path.
type ODBCGateway struct {
	configs ConfigSource
	dialect PageDialect
	open    func(connStr string) (*sql.DB, error)
}

// GatewayOption configures an ODBCGateway.
type GatewayOption func(*ODBCGateway)

// WithDialect overrides the pagination dialect.
func WithDialect(d PageDialect) GatewayOption {
	return func(g *ODBCGateway) {
		g.dialect = d
	}
}

// WithOpener overrides how connections are opened. Used by tests.
func WithOpener(open func(connStr string) (*sql.DB, error)) GatewayOption {
	return func(g *ODBCGateway) {
		g.open = open
	}
}

// NewODBCGateway creates a gateway reading credentials from configs.
func NewODBCGateway(configs ConfigSource, opts ...GatewayOption) *ODBCGateway {
	g := &ODBCGateway{
		configs: configs,
		dialect: RowWindowDialect{},
		open: func(connStr string) (*sql.DB, error) {
			return sql.Open("odbc", connStr)
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TestConnection attempts to open and ping the legacy store. A nil
// descriptor tests the saved configuration.
func (g *ODBCGateway) TestConnection(ctx context.Context, d *Descriptor) TestResult {
	if d == nil {
		active, err := g.configs.ActiveDescriptor(ctx)
		if err != nil {
			return TestResult{Success: false, Message: "Failed to load the saved connection configuration"}
		}
		if active == nil {
			return TestResult{Success: false, Message: ErrNoActiveConnection.Error()}
		}
		d = active
	}

	connStr, err := d.ConnString()
	if err != nil {
		return TestResult{Success: false, Message: err.Error()}
	}

	result := TestResult{ConnString: d.Redacted()}

	db, err := g.open(connStr)
	if err != nil {
		drvErr := ClassifyDriverError(err)
		result.Message = drvErr.Error()
		result.Suggestion = drvErr.Suggestion()
		return result
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		drvErr := ClassifyDriverError(err)
		result.Message = drvErr.Error()
		result.Suggestion = drvErr.Suggestion()
		return result
	}

	result.Success = true
	result.Message = "Connection to the legacy database succeeded"
	return result
}

// ListCompanies pages through companies applying the optional filters.
func (g *ODBCGateway) ListCompanies(ctx context.Context, f CompanyFilter, page, pageSize int) (Page, error) {
	if f.CodeIn != nil && len(f.CodeIn) == 0 {
		return Page{Rows: nil, Total: 0, Page: page, PageSize: pageSize}, nil
	}

	var preds []Predicate
	if f.Code != 0 {
		preds = append(preds, Eq("codi_emp", f.Code))
	}
	if f.NameContains != "" {
		preds = append(preds, ContainsFold("razao_emp", f.NameContains))
	}
	if f.TaxID != "" {
		preds = append(preds, Eq("cgce_emp", f.TaxID))
	}
	if len(f.CodeIn) > 0 {
		preds = append(preds, InInts("codi_emp", f.CodeIn))
	}

	return g.fetchPage(ctx, companyTable, preds, page, pageSize)
}

// GetCompany fetches a single company by its legacy code. Returns nil when
// the company does not exist.
func (g *ODBCGateway) GetCompany(ctx context.Context, code int) (*models.Company, error) {
	result, err := g.fetchPage(ctx, companyTable, []Predicate{Eq("codi_emp", code)}, 1, 1)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, nil
	}

	row := result.Rows[0]
	return &models.Company{
		Code:  row.Int("codi_emp"),
		Name:  row.Str("razao_emp"),
		TaxID: row.Str("cgce_emp"),
	}, nil
}

// ListSuppliers pages through one company's suppliers.
func (g *ODBCGateway) ListSuppliers(ctx context.Context, companyCode int, f SupplierFilter, page, pageSize int) (Page, error) {
	preds := []Predicate{Eq("codi_emp", companyCode)}
	if f.Code != "" {
		preds = append(preds, Eq("codi_for", f.Code))
	}
	if f.NameContains != "" {
		preds = append(preds, ContainsFold("nome_for", f.NameContains))
	}
	if f.TaxID != "" {
		preds = append(preds, Eq("cgce_for", f.TaxID))
	}

	return g.fetchPage(ctx, supplierTable, preds, page, pageSize)
}

// ListCustomers pages through one company's customers.
func (g *ODBCGateway) ListCustomers(ctx context.Context, companyCode int, page, pageSize int) (Page, error) {
	return g.fetchPage(ctx, customerTable, []Predicate{Eq("codi_emp", companyCode)}, page, pageSize)
}

// ListLedgerAccounts pages through the chart of accounts.
func (g *ODBCGateway) ListLedgerAccounts(ctx context.Context, nameContains string, page, pageSize int) (Page, error) {
	var preds []Predicate
	if nameContains != "" {
		preds = append(preds, ContainsFold("nome_cta", nameContains))
	}
	return g.fetchPage(ctx, ledgerAccountTable, preds, page, pageSize)
}

// ListAccumulators pages through one company's accumulators.
func (g *ODBCGateway) ListAccumulators(ctx context.Context, companyCode int, page, pageSize int) (Page, error) {
	return g.fetchPage(ctx, accumulatorTable, []Predicate{Eq("codi_emp", companyCode)}, page, pageSize)
}

// fetchPage runs the count + row-window select pair for one page.
func (g *ODBCGateway) fetchPage(ctx context.Context, table TableSpec, preds []Predicate, page, pageSize int) (Page, error) {
	result := Page{Page: page, PageSize: pageSize}

	d, err := g.configs.ActiveDescriptor(ctx)
	if err != nil {
		return result, fmt.Errorf("loading connection configuration: %w", err)
	}
	if d == nil {
		return result, ErrNoActiveConnection
	}

	connStr, err := d.ConnString()
	if err != nil {
		return result, err
	}

	db, err := g.open(connStr)
	if err != nil {
		return result, ClassifyDriverError(err)
	}
	defer db.Close()

	where, args := BuildWhere(preds)

	countStmt := "SELECT COUNT(*) FROM " + table.Name
	if where != "" {
		countStmt += " WHERE " + where
	}

	if err := db.QueryRowContext(ctx, countStmt, args...).Scan(&result.Total); err != nil {
		return result, ClassifyDriverError(err)
	}

	startRow := StartRow(page, pageSize)
	if result.Total == 0 || int64(startRow) > result.Total {
		return result, nil
	}

	selectStmt := g.dialect.SelectPage(table.Columns, table.Name, where, table.OrderBy, pageSize, startRow)

	log.Debug().Str("table", table.Name).Int("page", page).Int("startRow", startRow).Msg("Fetching legacy page")

	rows, err := db.QueryContext(ctx, selectStmt, args...)
	if err != nil {
		return result, ClassifyDriverError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return result, fmt.Errorf("reading result columns: %w", err)
	}

	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return result, fmt.Errorf("scanning legacy row: %w", err)
		}

		record := make(Record, len(columns))
		for i, col := range columns {
			record[col] = values[i]
		}
		result.Rows = append(result.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return result, ClassifyDriverError(err)
	}

	return result, nil
}
