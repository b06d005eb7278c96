package logger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/contalink/erp-sync-service/common/services"
)

// SyncLogHook implements zerolog.Hook, mirroring warn+ console logs into the
// sync_logs table so operators can inspect them over the API.
type SyncLogHook struct {
	logs services.SyncLogService
}

// NewSyncLogHook creates a new log hook
func NewSyncLogHook(logs services.SyncLogService) *SyncLogHook {
	return &SyncLogHook{
		logs: logs,
	}
}

// Run implements zerolog.Hook.Run
func (h *SyncLogHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level < zerolog.WarnLevel {
		return
	}

	// Asynchronous so logging never blocks on the database. The insert path
	// itself skips the tracer, so a failed insert cannot re-enter the hook
	// through pgx logging.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.logs.Insert(ctx, level.String(), msg, "{}"); err != nil {
			log.Debug().Err(err).Msg("Failed to persist log row")
		}
	}()
}

// InitializeLogging attaches the database hook to the global logger
func InitializeLogging(logs services.SyncLogService) {
	log.Logger = log.Logger.Hook(NewSyncLogHook(logs))
}

// LogService provides structured event logging to the database alongside the
// console.
type LogService struct {
	logs services.SyncLogService
}

// NewLogService creates a new log service
func NewLogService(logs services.SyncLogService) *LogService {
	return &LogService{
		logs: logs,
	}
}

// Log writes one event row and echoes it to the console
func (s *LogService) Log(ctx context.Context, level, message string, details any) error {
	detailsJSON := json.RawMessage("{}")
	if details != nil {
		encoded, err := json.Marshal(details)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal log details")
		} else {
			detailsJSON = encoded
		}
	}

	if err := s.logs.Insert(ctx, level, message, string(detailsJSON)); err != nil {
		log.Error().Err(err).Msg("Failed to insert log into database")
		return err
	}

	log.Info().
		Str("level", level).
		Str("message", message).
		Interface("details", details).
		Msg("Sync event")

	return nil
}

// BatchStarted logs the start of a batch enqueue pass for a company
func (s *LogService) BatchStarted(ctx context.Context, companyCode int) error {
	return s.Log(ctx, "info", "Batch supplier sync started", map[string]any{
		"company_code": companyCode,
	})
}

// BatchCompleted logs the outcome of a batch enqueue pass
func (s *LogService) BatchCompleted(ctx context.Context, companyCode, enqueued int) error {
	return s.Log(ctx, "info", "Batch supplier sync enqueued", map[string]any{
		"company_code": companyCode,
		"enqueued":     enqueued,
	})
}

// SubmissionFailed logs one failed supplier submission
func (s *LogService) SubmissionFailed(ctx context.Context, companyCode int, supplierCode, detail string) error {
	return s.Log(ctx, "error", "Supplier submission failed", map[string]any{
		"company_code":  companyCode,
		"supplier_code": supplierCode,
		"detail":        detail,
	})
}
