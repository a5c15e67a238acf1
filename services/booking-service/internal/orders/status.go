package orders

import (
	"fmt"
	"strings"
)

// Status is an order lifecycle state.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

// transitions is the source of truth for the order lifecycle. Terminal
// states map to an empty set.
var transitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusCompleted, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {StatusCompleted},
	StatusCompleted:      {},
	StatusCancelled:      {},
}

// ParseStatus validates a client-supplied status string.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.TrimSpace(s))
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

// AllowedTransitions returns the statuses reachable from current.
func AllowedTransitions(current Status) []Status {
	allowed := transitions[current]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminal reports whether no further transitions are permitted.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// InvalidTransitionError reports a rejected status change along with the
// set the client could have requested, so the UI can correct itself.
type InvalidTransitionError struct {
	Current   Status
	Attempted Status
	Allowed   []Status
}

func (e *InvalidTransitionError) Error() string {
	names := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		names[i] = string(s)
	}
	return fmt.Sprintf("cannot transition order from %s to %s (allowed: %s)",
		e.Current, e.Attempted, strings.Join(names, ", "))
}

// Transition validates a status change. Requesting the current status is an
// idempotent no-op. Any other target must be in the allowed set for current.
func Transition(current, next Status) error {
	if next == current {
		return nil
	}
	for _, allowed := range transitions[current] {
		if next == allowed {
			return nil
		}
	}
	return &InvalidTransitionError{
		Current:   current,
		Attempted: next,
		Allowed:   AllowedTransitions(current),
	}
}
