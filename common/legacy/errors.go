package legacy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoActiveConnection is returned when a query is requested but no
	// connection descriptor has been saved and activated.
	ErrNoActiveConnection = errors.New("no active legacy connection configuration")

	// ErrEmptyDataSourceName is returned when a descriptor without a DSN is
	// asked to produce a connection string.
	ErrEmptyDataSourceName = errors.New("data source name (DSN) is required")
)

// DriverErrorKind is a coarse classification of legacy driver failures,
// derived from the driver message. Used to give operators an actionable
// suggestion instead of a raw ODBC diagnostic.
type DriverErrorKind string

const (
	KindDSNNotFound   DriverErrorKind = "dsn_not_found"
	KindAuthFailed    DriverErrorKind = "auth_failed"
	KindDriverMissing DriverErrorKind = "driver_missing"
	KindTimeout       DriverErrorKind = "timeout"
	KindCommunication DriverErrorKind = "communication_failure"
	KindUnknown       DriverErrorKind = "unknown"
)

// DriverError wraps a failure reported by the legacy ODBC driver.
type DriverError struct {
	Kind DriverErrorKind
	Err  error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("legacy driver error (%s): %v", e.Kind, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

// Suggestion returns an operator-facing hint for the error kind.
func (e *DriverError) Suggestion() string {
	switch e.Kind {
	case KindDSNNotFound:
		return "Check that the DSN is configured on the host running this service"
	case KindAuthFailed:
		return "Check the user and password of the legacy database"
	case KindDriverMissing:
		return "Check that the ODBC driver is installed correctly"
	case KindTimeout:
		return "Check network connectivity and that the database server is reachable"
	case KindCommunication:
		return "The database server dropped the connection; check server health"
	default:
		return "See the service logs for the full driver diagnostic"
	}
}

// ClassifyDriverError wraps err in a DriverError, inferring the kind from
// well-known substrings of ODBC diagnostics.
func ClassifyDriverError(err error) *DriverError {
	msg := strings.ToLower(err.Error())

	kind := KindUnknown
	switch {
	case strings.Contains(msg, "data source name") && strings.Contains(msg, "not found"):
		kind = KindDSNNotFound
	case strings.Contains(msg, "login failed"),
		strings.Contains(msg, "invalid user"),
		strings.Contains(msg, "password"),
		strings.Contains(msg, "authentication"):
		kind = KindAuthFailed
	case strings.Contains(msg, "driver"):
		kind = KindDriverMissing
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		kind = KindTimeout
	case strings.Contains(msg, "communication"), strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"):
		kind = KindCommunication
	}

	return &DriverError{Kind: kind, Err: err}
}
