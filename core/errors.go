package core

import "fmt"

// ExternalServiceError wraps a failed or timed-out call to an external
// collaborator (classification, embedding or generation). This class is always
// recovered locally via a deterministic fallback and never surfaced to the
// caller as a fault.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// NotFoundError reports an unknown domain record (order, complaint, refund).
// Handlers surface it as a NotFound result with a readable message, not as a
// transport failure.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Kind, e.ID) }

// ValidationError reports missing or malformed input (absent order id, fewer
// than two product ids for a comparison). Routing short-circuits it into a
// clarification response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
