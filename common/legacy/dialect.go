package legacy

import (
	"fmt"
	"strings"
)

// PageDialect renders a paged select statement. The legacy store speaks a
// row-window dialect ("top N starting at row M") that is not portable SQL,
// so the rendering is pluggable: orchestration code never sees the syntax.
type PageDialect interface {
	// SelectPage renders a select of columns from table, constrained by the
	// (possibly empty) where clause, ordered by orderBy, returning at most
	// pageSize rows beginning at the 1-based absolute row startRow.
	SelectPage(columns []string, table, where, orderBy string, pageSize, startRow int) string
}

// StartRow computes the 1-based absolute first row of a page.
func StartRow(page, pageSize int) int {
	return (page-1)*pageSize + 1
}

// RowWindowDialect renders SQL Anywhere style row windows:
// SELECT TOP n START AT m ... ORDER BY key.
type RowWindowDialect struct{}

func (RowWindowDialect) SelectPage(columns []string, table, where, orderBy string, pageSize, startRow int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT TOP %d START AT %d %s FROM %s", pageSize, startRow, strings.Join(columns, ", "), table)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(orderBy)
	return b.String()
}

// OffsetLimitDialect renders standard LIMIT/OFFSET paging, for backends that
// speak portable SQL.
type OffsetLimitDialect struct{}

func (OffsetLimitDialect) SelectPage(columns []string, table, where, orderBy string, pageSize, startRow int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(columns, ", "), table)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	fmt.Fprintf(&b, " ORDER BY %s LIMIT %d OFFSET %d", orderBy, pageSize, startRow-1)
	return b.String()
}
