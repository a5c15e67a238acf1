package orders

import (
	"errors"
	"testing"
)

var allStatuses = []Status{
	StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
	StatusOutForDelivery, StatusDelivered, StatusCompleted, StatusCancelled,
}

// TestTransitionExhaustive checks every (from, to) pair against the
// transition table: listed pairs succeed, everything else is rejected, and
// same-status is always a no-op.
func TestTransitionExhaustive(t *testing.T) {
	allowed := map[Status]map[Status]bool{}
	for from, tos := range transitions {
		allowed[from] = map[Status]bool{}
		for _, to := range tos {
			allowed[from][to] = true
		}
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := Transition(from, to)
			switch {
			case from == to:
				if err != nil {
					t.Errorf("Transition(%s, %s): same status must be a no-op, got %v", from, to, err)
				}
			case allowed[from][to]:
				if err != nil {
					t.Errorf("Transition(%s, %s): expected success, got %v", from, to, err)
				}
			default:
				if err == nil {
					t.Errorf("Transition(%s, %s): expected rejection", from, to)
				}
			}
		}
	}
}

func TestTerminalStatusesRejectEverything(t *testing.T) {
	for _, terminal := range []Status{StatusCompleted, StatusCancelled} {
		if !IsTerminal(terminal) {
			t.Fatalf("%s should be terminal", terminal)
		}
		for _, to := range allStatuses {
			if to == terminal {
				continue
			}
			if err := Transition(terminal, to); err == nil {
				t.Errorf("Transition(%s, %s): terminal state must reject", terminal, to)
			}
		}
	}
}

func TestInvalidTransitionErrorDisclosesAllowedSet(t *testing.T) {
	err := Transition(StatusPending, StatusReady)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.Current != StatusPending || invalid.Attempted != StatusReady {
		t.Fatalf("unexpected error fields: %+v", invalid)
	}
	if len(invalid.Allowed) != 2 {
		t.Fatalf("pending should allow 2 transitions, got %v", invalid.Allowed)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("out_for_delivery")
	if err != nil || s != StatusOutForDelivery {
		t.Fatalf("ParseStatus failed: %v", err)
	}
	if _, err := ParseStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
