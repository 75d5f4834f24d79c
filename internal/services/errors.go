// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Handlers translate these with
// errors.Is/errors.As into response codes.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateMember  = errors.New("item is already in the collection")
	ErrQuotaExceeded    = errors.New("submission quota exceeded")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrUsernameCooldown = errors.New("username was changed within the last 30 days")
)

// ValidationError reports a missing or invalid field. In bulk flows it is
// attached to a single row and blocks only that row.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ConsistencyError marks a mutation that affected zero rows when exactly
// one was expected. Never treated as success: it points at a blocked write
// or a data race, not an ordinary validation problem.
type ConsistencyError struct {
	Op       string
	Resource string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s on %s affected no rows", e.Op, e.Resource)
}

// UpstreamStorageError wraps a blob-store or tabular-store failure. It is
// surfaced to the caller without automatic retries.
type UpstreamStorageError struct {
	Op  string
	Err error
}

func (e *UpstreamStorageError) Error() string {
	return fmt.Sprintf("upstream storage failure during %s: %v", e.Op, e.Err)
}

func (e *UpstreamStorageError) Unwrap() error {
	return e.Err
}
