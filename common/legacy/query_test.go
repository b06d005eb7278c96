package legacy

import (
	"reflect"
	"testing"
)

func TestBuildWhere(t *testing.T) {
	tests := []struct {
		name           string
		preds          []Predicate
		expectedClause string
		expectedArgs   []any
	}{
		{
			name:           "no predicates",
			preds:          nil,
			expectedClause: "",
			expectedArgs:   nil,
		},
		{
			name:           "single equality",
			preds:          []Predicate{Eq("codi_emp", 42)},
			expectedClause: "codi_emp = ?",
			expectedArgs:   []any{42},
		},
		{
			name: "combined filters",
			preds: []Predicate{
				Eq("codi_emp", 42),
				ContainsFold("nome_for", "ACME"),
			},
			expectedClause: "codi_emp = ? AND LOWER(nome_for) LIKE ?",
			expectedArgs:   []any{42, "%acme%"},
		},
		{
			name:           "in list",
			preds:          []Predicate{InInts("codi_emp", []int{1, 2, 3})},
			expectedClause: "codi_emp IN (?, ?, ?)",
			expectedArgs:   []any{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := BuildWhere(tt.preds)
			if clause != tt.expectedClause {
				t.Errorf("expected clause %q, got %q", tt.expectedClause, clause)
			}
			if !reflect.DeepEqual(args, tt.expectedArgs) {
				t.Errorf("expected args %v, got %v", tt.expectedArgs, args)
			}
		})
	}
}

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"nome_for": "  ACME Ltda  ",
		"cgce_for": []byte("12345678000195 "),
		"codi_emp": int32(7),
		"codi_for": "0042",
		"ratio":    3.9,
		"blank":    nil,
	}

	if got := r.Str("nome_for"); got != "ACME Ltda" {
		t.Errorf("Str trimmed string: got %q", got)
	}
	if got := r.Str("cgce_for"); got != "12345678000195" {
		t.Errorf("Str byte slice: got %q", got)
	}
	if got := r.Str("codi_emp"); got != "7" {
		t.Errorf("Str numeric: got %q", got)
	}
	if got := r.Str("blank"); got != "" {
		t.Errorf("Str nil: got %q", got)
	}
	if got := r.Str("missing"); got != "" {
		t.Errorf("Str missing: got %q", got)
	}

	if got := r.Int("codi_emp"); got != 7 {
		t.Errorf("Int int32: got %d", got)
	}
	if got := r.Int("codi_for"); got != 42 {
		t.Errorf("Int numeric string: got %d", got)
	}
	if got := r.Int("ratio"); got != 3 {
		t.Errorf("Int float: got %d", got)
	}
	if got := r.Int("nome_for"); got != 0 {
		t.Errorf("Int unparsable: got %d", got)
	}
}
