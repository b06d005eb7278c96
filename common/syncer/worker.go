package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/contalink/erp-sync-service/common/registry"
	"github.com/contalink/erp-sync-service/common/services"
)

// Worker executes one submission unit: a fixed courtesy delay, one registry
// call, and an unconditional status upsert. It never retries; a failed unit
// becomes eligible again on the next orchestrator pass.
type Worker struct {
	client   registry.Client
	registry services.RegistryConfigService
	statuses services.SyncStatusService
	delay    time.Duration
}

// NewWorker creates a Worker with explicit collaborators.
func NewWorker(client registry.Client, registryCfg services.RegistryConfigService, statuses services.SyncStatusService, delay time.Duration) *Worker {
	return &Worker{
		client:   client,
		registry: registryCfg,
		statuses: statuses,
		delay:    delay,
	}
}

// Process runs one unit. The attempt outcome is recorded in the status store
// on every exit path, including panics and cancellation; a unit never
// terminates with the store left unwritten.
func (w *Worker) Process(ctx context.Context, unit SupplierUnit) (result registry.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = registry.Result{
				Success: false,
				Message: fmt.Sprintf("Unexpected failure during submission: %v", r),
			}
		}
		w.record(ctx, unit, result)
	}()

	if w.delay > 0 {
		select {
		case <-time.After(w.delay):
		case <-ctx.Done():
			result = registry.Result{Success: false, Message: "Submission cancelled before the registry call"}
			return
		}
	}

	cfg, err := w.registry.GetActive(ctx)
	if err != nil {
		result = registry.Result{Success: false, Message: fmt.Sprintf("Failed to load registry configuration: %v", err)}
		return
	}
	if cfg == nil {
		result = registry.Result{Success: false, Message: ErrRegistryNotConfigured.Error()}
		return
	}

	result = w.client.SubmitSupplier(ctx, cfg.BaseURL, cfg.ApiKey, registry.SupplierSubmission{
		CompanyTaxID:      unit.CompanyTaxID,
		SupplierName:      unit.SupplierName,
		SupplierTaxID:     unit.SupplierTaxID,
		LedgerAccountCode: unit.LedgerAccountCode,
	})
	return
}

// record persists the attempt outcome. Uses a context detached from the
// unit's cancellation so a timed-out unit still gets its row written.
func (w *Worker) record(ctx context.Context, unit SupplierUnit, result registry.Result) {
	detail := result.Details
	if detail == nil {
		detail = result.Message
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if _, err := w.statuses.Upsert(recordCtx, unit.CompanyCode, unit.SupplierCode, result.Success, detail, result.ExternalID); err != nil {
		log.Error().Err(err).
			Int("companyCode", unit.CompanyCode).
			Str("supplierCode", unit.SupplierCode).
			Msg("Failed to record submission outcome")
		return
	}

	log.Info().
		Int("companyCode", unit.CompanyCode).
		Str("supplierCode", unit.SupplierCode).
		Bool("success", result.Success).
		Str("message", result.Message).
		Msg("Submission outcome recorded")
}
