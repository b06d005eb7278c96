package syncer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/contalink/erp-sync-service/common/messaging"
	"github.com/contalink/erp-sync-service/common/registry"
	"github.com/contalink/erp-sync-service/common/work"
)

// unitTimeout bounds one unit: the courtesy delay plus the registry call.
const unitTimeout = 2 * time.Minute

// RegisterConsumer subscribes to the supplier submission subject and runs
// incoming units on the worker pool. The pool size is the concurrency
// ceiling against the registry.
func RegisterConsumer(ctx context.Context, broker *messaging.NatsBroker, pool *work.Pool[registry.Result], worker *Worker) (jetstream.ConsumeContext, error) {
	consumer, err := broker.GetConsumer(messaging.StreamSync, messaging.SubjectSupplierSubmit)
	if err != nil {
		return nil, err
	}

	// Drain pool results so outcomes are not dropped on the floor.
	go func() {
		for result := range pool.Results() {
			if result.Error != nil {
				log.Warn().Err(result.Error).Str("taskID", result.TaskID).Msg("Submission unit failed")
			}
		}
	}()

	return broker.Consume(consumer, func(msg jetstream.Msg) {
		var unit SupplierUnit
		if err := json.Unmarshal(msg.Data(), &unit); err != nil {
			log.Error().Err(err).Msg("Discarding malformed supplier unit")
			if err := msg.Term(); err != nil {
				log.Warn().Err(err).Msg("Failed to terminate malformed message")
			}
			return
		}

		task, err := work.NewTask(
			func(taskCtx context.Context) (registry.Result, error) {
				return worker.Process(taskCtx, unit), nil
			},
			work.WithTimeout[registry.Result](unitTimeout),
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to build submission task")
			if err := msg.Nak(); err != nil {
				log.Warn().Err(err).Msg("Failed to nak supplier unit")
			}
			return
		}

		if err := pool.AddTask(ctx, task); err != nil {
			log.Error().Err(err).Str("supplierCode", unit.SupplierCode).Msg("Failed to hand unit to the worker pool")
			if err := msg.Nak(); err != nil {
				log.Warn().Err(err).Msg("Failed to nak supplier unit")
			}
			return
		}

		if err := msg.Ack(); err != nil {
			log.Warn().Err(err).Str("supplierCode", unit.SupplierCode).Msg("Failed to ack supplier unit")
		}
	})
}
