package legacy

import (
	"strings"
)

// Predicate is one AND-ed condition of a legacy query. Values are always
// bound as parameters; only fixed, call-site-owned identifiers appear in the
// clause text.
type Predicate struct {
	clause string
	args   []any
}

// Eq matches a column exactly.
func Eq(column string, value any) Predicate {
	return Predicate{clause: column + " = ?", args: []any{value}}
}

// ContainsFold matches a case-insensitive substring of a column.
func ContainsFold(column, substr string) Predicate {
	return Predicate{
		clause: "LOWER(" + column + ") LIKE ?",
		args:   []any{"%" + strings.ToLower(substr) + "%"},
	}
}

// InInts matches a column against an explicit allow-list. Callers must
// short-circuit an empty list before building the query.
func InInts(column string, values []int) Predicate {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return Predicate{clause: column + " IN (" + placeholders + ")", args: args}
}

// BuildWhere joins predicates into a WHERE clause body and the bound
// argument list. An empty predicate set yields an empty clause, never a
// match-everything condition.
func BuildWhere(preds []Predicate) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(preds))
	var args []any
	for _, p := range preds {
		clauses = append(clauses, p.clause)
		args = append(args, p.args...)
	}
	return strings.Join(clauses, " AND "), args
}

// TableSpec fixes the identifiers of one legacy table. Specs are package
// constants; user input never reaches identifier position.
type TableSpec struct {
	Name    string
	Columns []string
	OrderBy string
}

var (
	companyTable = TableSpec{
		Name:    "bethadba.geempre",
		Columns: []string{"codi_emp", "razao_emp", "cgce_emp"},
		OrderBy: "codi_emp",
	}

	supplierTable = TableSpec{
		Name:    "bethadba.effornece",
		Columns: []string{"codi_emp", "codi_for", "nome_for", "cgce_for", "codi_cta"},
		OrderBy: "codi_for",
	}

	customerTable = TableSpec{
		Name:    "bethadba.efclientes",
		Columns: []string{"codi_emp", "codi_cli", "nome_cli", "cgce_cli"},
		OrderBy: "codi_cli",
	}

	ledgerAccountTable = TableSpec{
		Name:    "bethadba.ctcontas",
		Columns: []string{"codi_cta", "nome_cta", "clas_cta"},
		OrderBy: "codi_cta",
	}

	accumulatorTable = TableSpec{
		Name:    "bethadba.efacumulador",
		Columns: []string{"codi_emp", "codi_acu", "nome_acu"},
		OrderBy: "codi_acu",
	}
)
