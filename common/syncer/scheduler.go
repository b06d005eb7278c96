package syncer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/contalink/erp-sync-service/common/messaging"
)

// NatsScheduler publishes units to the JetStream sync stream, where the
// registered consumer picks them up.
type NatsScheduler struct {
	broker *messaging.NatsBroker
}

// NewNatsScheduler creates a new NatsScheduler
func NewNatsScheduler(broker *messaging.NatsBroker) *NatsScheduler {
	return &NatsScheduler{
		broker: broker,
	}
}

// Enqueue publishes one unit and waits for the stream ack
func (s *NatsScheduler) Enqueue(ctx context.Context, unit SupplierUnit) error {
	data, err := json.Marshal(unit)
	if err != nil {
		return fmt.Errorf("encoding supplier unit: %w", err)
	}

	if err := s.broker.PublishSync(ctx, messaging.SubjectSupplierSubmit, data); err != nil {
		return fmt.Errorf("enqueueing supplier unit: %w", err)
	}
	return nil
}
