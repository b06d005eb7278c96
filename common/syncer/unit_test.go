package syncer

import (
	"encoding/json"
	"reflect"
	"testing"
)

// Units travel through NATS as JSON; the publishing and consuming sides must
// agree on every wire key.
func TestSupplierUnitWireRoundTrip(t *testing.T) {
	unit := SupplierUnit{
		CompanyCode:       42,
		CompanyTaxID:      "11222333000181",
		CompanyName:       "Empresa Modelo LTDA",
		SupplierCode:      "1001",
		SupplierName:      "Fornecedor Um",
		SupplierTaxID:     "99888777000166",
		LedgerAccountCode: "1101",
	}

	data, err := json.Marshal(unit)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	var keys map[string]any
	if err := json.Unmarshal(data, &keys); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	wireKeys := []string{
		"company_code", "company_tax_id", "company_name",
		"supplier_code", "supplier_name", "supplier_tax_id",
		"ledger_account_code",
	}
	for _, key := range wireKeys {
		if _, ok := keys[key]; !ok {
			t.Errorf("wire payload is missing key %q", key)
		}
	}
	if len(keys) != len(wireKeys) {
		t.Errorf("wire payload has %d keys, want %d: %s", len(keys), len(wireKeys), data)
	}

	var decoded SupplierUnit
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if !reflect.DeepEqual(decoded, unit) {
		t.Errorf("round-tripped unit = %+v, want %+v", decoded, unit)
	}
}

// The consuming side decodes raw message bytes; pin the key spelling it
// expects independently of the struct tags.
func TestSupplierUnitDecodeFromWire(t *testing.T) {
	payload := []byte(`{
		"company_code": 7,
		"company_tax_id": "11222333000181",
		"company_name": "Empresa Sete",
		"supplier_code": "2002",
		"supplier_name": "Fornecedor Dois",
		"supplier_tax_id": "55666777000144",
		"ledger_account_code": "2201"
	}`)

	var unit SupplierUnit
	if err := json.Unmarshal(payload, &unit); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}

	want := SupplierUnit{
		CompanyCode:       7,
		CompanyTaxID:      "11222333000181",
		CompanyName:       "Empresa Sete",
		SupplierCode:      "2002",
		SupplierName:      "Fornecedor Dois",
		SupplierTaxID:     "55666777000144",
		LedgerAccountCode: "2201",
	}
	if !reflect.DeepEqual(unit, want) {
		t.Errorf("decoded unit = %+v, want %+v", unit, want)
	}
}
