package syncer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/contalink/erp-sync-service/common/config"
	"github.com/contalink/erp-sync-service/common/legacy"
	"github.com/contalink/erp-sync-service/common/services"
	"github.com/contalink/erp-sync-service/common/work"
)

// BatchResult summarizes one batch enqueue pass.
type BatchResult struct {
	EnqueuedCount int    `json:"enqueued_count"`
	Message       string `json:"message"`
}

// Orchestrator drives the batch submission of one company's suppliers:
// collect all supplier pages from the legacy store, filter by eligibility
// against the status store, and hand one unit per eligible supplier to the
// scheduler.
type Orchestrator struct {
	gateway   legacy.Gateway
	registry  services.RegistryConfigService
	statuses  services.SyncStatusService
	flags     services.CompanyFlagService
	scheduler Scheduler
	locker    work.RunLocker
	cfg       config.SyncConfig
}

// NewOrchestrator creates an Orchestrator with explicit collaborators.
func NewOrchestrator(
	gateway legacy.Gateway,
	registry services.RegistryConfigService,
	statuses services.SyncStatusService,
	flags services.CompanyFlagService,
	scheduler Scheduler,
	locker work.RunLocker,
	cfg config.SyncConfig,
) *Orchestrator {
	return &Orchestrator{
		gateway:   gateway,
		registry:  registry,
		statuses:  statuses,
		flags:     flags,
		scheduler: scheduler,
		locker:    locker,
		cfg:       cfg,
	}
}

// supplierCandidate is one supplier row collected while paging.
type supplierCandidate struct {
	Code              string
	Name              string
	TaxID             string
	LedgerAccountCode string
}

func (c supplierCandidate) valid() bool {
	return c.Code != "" && c.Name != "" && c.TaxID != ""
}

// BatchRunning reports whether a batch pass for the company currently holds
// the run lock.
func (o *Orchestrator) BatchRunning(ctx context.Context, companyCode int) (bool, error) {
	return o.locker.IsRunning(ctx, companyCode)
}

// EnqueueEligibleSuppliers runs one batch pass for a company.
//
// Preconditions fail fast: an active registry configuration and an enabled
// company sync flag are required, and the company must exist in the legacy
// store. A page-select failure aborts the whole call rather than submitting
// a partial roster as if it were complete.
func (o *Orchestrator) EnqueueEligibleSuppliers(ctx context.Context, companyCode int) (BatchResult, error) {
	registryCfg, err := o.registry.GetActive(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("loading registry configuration: %w", err)
	}
	if registryCfg == nil {
		return BatchResult{}, ErrRegistryNotConfigured
	}

	flag, err := o.flags.Get(ctx, companyCode)
	if err != nil {
		return BatchResult{}, fmt.Errorf("loading company sync flag: %w", err)
	}
	if flag == nil || !flag.Enabled {
		return BatchResult{}, ErrSyncDisabled
	}

	if err := o.locker.Acquire(ctx, companyCode); err != nil {
		return BatchResult{}, err
	}
	defer func() {
		if err := o.locker.Release(context.WithoutCancel(ctx), companyCode); err != nil {
			log.Warn().Err(err).Int("companyCode", companyCode).Msg("Failed to release batch lock")
		}
	}()

	company, err := o.gateway.GetCompany(ctx, companyCode)
	if err != nil {
		return BatchResult{}, fmt.Errorf("looking up company %d: %w", companyCode, err)
	}
	if company == nil {
		return BatchResult{}, ErrCompanyNotFound
	}

	candidates, err := o.collectSuppliers(ctx, companyCode)
	if err != nil {
		return BatchResult{}, err
	}
	if len(candidates) == 0 {
		return BatchResult{Message: "No suppliers found for this company"}, nil
	}

	valid := lo.Filter(candidates, func(c supplierCandidate, _ int) bool {
		if !c.valid() {
			log.Debug().
				Int("companyCode", companyCode).
				Str("supplierCode", c.Code).
				Msg("Skipping supplier with missing code, name or tax id")
			return false
		}
		return true
	})
	if len(valid) == 0 {
		return BatchResult{Message: "No suppliers with complete data found for this company"}, nil
	}

	codes := lo.Map(valid, func(c supplierCandidate, _ int) string { return c.Code })
	statuses, err := o.statuses.GetMany(ctx, companyCode, codes)
	if err != nil {
		return BatchResult{}, fmt.Errorf("loading supplier sync statuses: %w", err)
	}

	eligible := lo.Filter(valid, func(c supplierCandidate, _ int) bool {
		status, ok := statuses[c.Code]
		return !ok || status.State.Eligible()
	})
	if len(eligible) == 0 {
		return BatchResult{Message: "All suppliers of this company are already synchronized or in progress"}, nil
	}

	enqueued := 0
	for _, c := range eligible {
		unit := SupplierUnit{
			CompanyCode:       companyCode,
			CompanyTaxID:      company.TaxID,
			CompanyName:       company.Name,
			SupplierCode:      c.Code,
			SupplierName:      c.Name,
			SupplierTaxID:     c.TaxID,
			LedgerAccountCode: c.LedgerAccountCode,
		}
		if err := o.scheduler.Enqueue(ctx, unit); err != nil {
			return BatchResult{EnqueuedCount: enqueued},
				fmt.Errorf("enqueueing supplier %s after %d units: %w", c.Code, enqueued, err)
		}
		enqueued++
	}

	if err := o.flags.TouchLastSynced(ctx, companyCode); err != nil {
		log.Warn().Err(err).Int("companyCode", companyCode).Msg("Failed to stamp last synced time")
	}

	log.Info().
		Int("companyCode", companyCode).
		Int("collected", len(candidates)).
		Int("valid", len(valid)).
		Int("enqueued", enqueued).
		Msg("Batch enqueue completed")

	return BatchResult{
		EnqueuedCount: enqueued,
		Message:       fmt.Sprintf("Enqueued %d of %d suppliers for synchronization", enqueued, len(valid)),
	}, nil
}

// collectSuppliers pages through all suppliers of a company. Exceeding the
// page cap stops paging with a warning and proceeds with what was collected;
// a failed page aborts the call.
func (o *Orchestrator) collectSuppliers(ctx context.Context, companyCode int) ([]supplierCandidate, error) {
	var candidates []supplierCandidate

	for page := 1; ; page++ {
		if page > o.cfg.MaxPages {
			log.Warn().
				Int("companyCode", companyCode).
				Int("maxPages", o.cfg.MaxPages).
				Msg("Supplier paging exceeded the page cap, proceeding with collected rows")
			break
		}

		result, err := o.gateway.ListSuppliers(ctx, companyCode, legacy.SupplierFilter{}, page, o.cfg.PageSize)
		if err != nil {
			return nil, fmt.Errorf("fetching supplier page %d: %w", page, err)
		}

		for _, row := range result.Rows {
			candidates = append(candidates, supplierCandidate{
				Code:              row.Str("codi_for"),
				Name:              row.Str("nome_for"),
				TaxID:             row.Str("cgce_for"),
				LedgerAccountCode: row.Str("codi_cta"),
			})
		}

		if len(result.Rows) < o.cfg.PageSize || int64(len(candidates)) >= result.Total {
			break
		}
	}

	return candidates, nil
}
