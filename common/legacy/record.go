package legacy

import (
	"strconv"
	"strings"
)

// Record is one loosely-typed row from a legacy query. Column types vary per
// driver; accessors normalize the common shapes.
type Record map[string]any

// Str returns the value of key as a trimmed string. ODBC CHAR columns are
// space padded.
func (r Record) Str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	default:
		return strings.TrimSpace(strconv.FormatInt(r.Int64(key), 10))
	}
}

// Int returns the value of key as an int, or 0 when absent or unparsable.
func (r Record) Int(key string) int {
	return int(r.Int64(key))
}

// Int64 returns the value of key as an int64, or 0 when absent or unparsable.
func (r Record) Int64(key string) int64 {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0
		}
		return n
	case []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Page is one window of records plus the total matching count.
type Page struct {
	Rows     []Record
	Total    int64
	Page     int
	PageSize int
}
