package syncer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/contalink/erp-sync-service/common/models"
	"github.com/contalink/erp-sync-service/common/registry"
)

type fakeRegistryClient struct {
	result registry.Result
	panics bool
	calls  int
}

func (c *fakeRegistryClient) TestConnection(ctx context.Context, baseURL, apiKey string) registry.Result {
	return registry.Result{Success: true}
}

func (c *fakeRegistryClient) SubmitSupplier(ctx context.Context, baseURL, apiKey string, payload registry.SupplierSubmission) registry.Result {
	c.calls++
	if c.panics {
		panic("unexpected registry client failure")
	}
	return c.result
}

func testUnit() SupplierUnit {
	return SupplierUnit{
		CompanyCode:       42,
		CompanyTaxID:      "11222333000144",
		CompanyName:       "Empresa Teste",
		SupplierCode:      "7",
		SupplierName:      "ACME Ltda",
		SupplierTaxID:     "12345678000195",
		LedgerAccountCode: "1101",
	}
}

func activeRegistry() fakeRegistryConfigs {
	return fakeRegistryConfigs{cfg: &models.RegistryConfig{BaseURL: "https://registry", ApiKey: "key", Active: true}}
}

func TestWorkerProcessSuccess(t *testing.T) {
	client := &fakeRegistryClient{result: registry.Result{
		Success:    true,
		Message:    "Supplier accepted by the registry",
		ExternalID: "123",
	}}
	statuses := &fakeStatuses{}

	w := NewWorker(client, activeRegistry(), statuses, 0)
	result := w.Process(context.Background(), testUnit())

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(statuses.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(statuses.upserts))
	}

	call := statuses.upserts[0]
	if call.companyCode != 42 || call.supplierCode != "7" {
		t.Errorf("upsert recorded against wrong pair: %+v", call)
	}
	if !call.succeeded {
		t.Error("expected a succeeded upsert")
	}
	if call.externalID != "123" {
		t.Errorf("expected external id 123, got %q", call.externalID)
	}
}

func TestWorkerProcessRegistryFailure(t *testing.T) {
	client := &fakeRegistryClient{result: registry.Result{
		Success: false,
		Message: "Registry reported a failed synchronization",
		Details: map[string]any{"success": false},
	}}
	statuses := &fakeStatuses{}

	w := NewWorker(client, activeRegistry(), statuses, 0)
	result := w.Process(context.Background(), testUnit())

	if result.Success {
		t.Fatal("expected failure")
	}
	if len(statuses.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(statuses.upserts))
	}
	if statuses.upserts[0].succeeded {
		t.Error("expected a failed upsert")
	}
}

// A panic inside the registry call still leaves a recorded outcome.
func TestWorkerProcessPanicStillRecords(t *testing.T) {
	client := &fakeRegistryClient{panics: true}
	statuses := &fakeStatuses{}

	w := NewWorker(client, activeRegistry(), statuses, 0)
	result := w.Process(context.Background(), testUnit())

	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Message, "Unexpected failure") {
		t.Errorf("unexpected message %q", result.Message)
	}
	if len(statuses.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(statuses.upserts))
	}
	if statuses.upserts[0].succeeded {
		t.Error("expected a failed upsert")
	}
}

func TestWorkerProcessWithoutRegistryConfig(t *testing.T) {
	client := &fakeRegistryClient{}
	statuses := &fakeStatuses{}

	w := NewWorker(client, fakeRegistryConfigs{}, statuses, 0)
	result := w.Process(context.Background(), testUnit())

	if result.Success {
		t.Fatal("expected failure")
	}
	if client.calls != 0 {
		t.Error("registry must not be called without a configuration")
	}
	if len(statuses.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(statuses.upserts))
	}
}

// Cancellation during the courtesy delay skips the registry call but still
// records the outcome.
func TestWorkerProcessCancelledDuringDelay(t *testing.T) {
	client := &fakeRegistryClient{}
	statuses := &fakeStatuses{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWorker(client, activeRegistry(), statuses, time.Minute)
	result := w.Process(ctx, testUnit())

	if result.Success {
		t.Fatal("expected failure")
	}
	if client.calls != 0 {
		t.Error("registry must not be called after cancellation")
	}
	if len(statuses.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(statuses.upserts))
	}
	if statuses.upserts[0].succeeded {
		t.Error("expected a failed upsert")
	}
}

func TestWorkerProcessAppliesDelay(t *testing.T) {
	client := &fakeRegistryClient{result: registry.Result{Success: true}}
	statuses := &fakeStatuses{}

	delay := 50 * time.Millisecond
	w := NewWorker(client, activeRegistry(), statuses, delay)

	start := time.Now()
	w.Process(context.Background(), testUnit())

	if elapsed := time.Since(start); elapsed < delay {
		t.Errorf("expected at least %v of delay, took %v", delay, elapsed)
	}
}
