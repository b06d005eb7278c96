package services

import (
	"strings"
	"testing"

	"github.com/contalink/erp-sync-service/common/models"
)

func TestStateForOutcome(t *testing.T) {
	tests := []struct {
		name      string
		succeeded bool
		want      models.SupplierSyncState
	}{
		{name: "success maps to SYNCED", succeeded: true, want: models.SyncStateSynced},
		{name: "failure maps to ERROR", succeeded: false, want: models.SyncStateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stateForOutcome(tt.succeeded); got != tt.want {
				t.Errorf("stateForOutcome(%v) = %q, want %q", tt.succeeded, got, tt.want)
			}
		})
	}
}

func TestSerializeDetail(t *testing.T) {
	tests := []struct {
		name   string
		detail any
		want   string
	}{
		{name: "nil stores empty", detail: nil, want: ""},
		{name: "string stored as-is", detail: "CNPJ invalido", want: "CNPJ invalido"},
		{name: "map stored as JSON", detail: map[string]string{"message": "ok"}, want: `{"message":"ok"}`},
		{name: "struct stored as JSON", detail: struct {
			Code int `json:"code"`
		}{Code: 422}, want: `{"code":422}`},
		{name: "number stored as JSON", detail: 7, want: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serializeDetail(tt.detail); got != tt.want {
				t.Errorf("serializeDetail(%#v) = %q, want %q", tt.detail, got, tt.want)
			}
		})
	}
}

// Repeating an upsert for one (company, supplier) pair must rewrite the same
// row rather than insert a second one, and every attempt must restamp
// last_attempt_at. The statement guarantees both through its conflict target
// and update set, so pin that shape.
func TestUpsertStatementShape(t *testing.T) {
	sql := upsertSupplierSyncStatusSQL

	if !strings.Contains(sql, "ON CONFLICT (company_code, supplier_code) DO UPDATE") {
		t.Error("upsert must resolve conflicts on the (company_code, supplier_code) unique pair")
	}
	if strings.Count(sql, "INSERT INTO supplier_sync_status") != 1 {
		t.Error("upsert must be a single insert statement")
	}
	if !strings.Contains(sql, "last_attempt_at, last_response_detail, external_registry_id)\n\tVALUES ($1, $2, $3, now(), $4, $5)") {
		t.Error("insert must stamp last_attempt_at with now()")
	}
	if !strings.Contains(sql, "last_attempt_at = EXCLUDED.last_attempt_at") {
		t.Error("conflicting upsert must carry the fresh last_attempt_at onto the existing row")
	}
	if !strings.Contains(sql, "state = EXCLUDED.state") {
		t.Error("conflicting upsert must overwrite state")
	}
	if !strings.Contains(sql, "WHEN EXCLUDED.external_registry_id <> '' THEN EXCLUDED.external_registry_id") ||
		!strings.Contains(sql, "ELSE supplier_sync_status.external_registry_id") {
		t.Error("an empty external id must keep the stored one")
	}
	if !strings.Contains(sql, "RETURNING id, company_code, supplier_code, state, last_attempt_at, last_response_detail, external_registry_id") {
		t.Error("upsert must return the full stored row")
	}
}
