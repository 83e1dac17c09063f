package eligibility

import (
	"errors"
)

// Error taxonomy for the join/leave/payment workflow. Every network
// failure maps to one of these; none of them is fatal and none of them
// leaves the tracker in a partial state.
var (
	ErrAuthRequired      = errors.New("authentication required")
	ErrNetwork           = errors.New("network failure")
	ErrNotFound          = errors.New("event not found")
	ErrServer            = errors.New("server error")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrEventFull         = errors.New("event is full")

	// ErrOperationInFlight is returned when a join or leave call is
	// attempted while a previous one is still outstanding. Callers
	// treat it as a no-op.
	ErrOperationInFlight = errors.New("operation already in progress")
)
