package laborder

import (
	"fmt"
	"strings"

	"labconsole/internal/pkg/errs"
)

// Status represents the lifecycle state of a lab order.
//
// State transitions:
//
//	Pending ──┬──> InProcess ──┐
//	          │                ├──> Completed
//	          └────────────────┘
//
// InProcess is only ever assigned by the lab backend. The console implements a
// single transition, Finalize, which moves any state to Completed.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial state of a freshly registered order.
	Pending

	// InProcess indicates that samples are being processed by the lab.
	InProcess

	// Completed indicates the order has been finalized by staff.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		InProcess: "in_process",
		Completed: "completed",
	}
}

// ParseStatus converts the wire representation ("pending", "in_process", "completed")
// into a Status. Matching ignores case and surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the status is one of Pending, InProcess or Completed.
func (s Status) Validate() error {
	if s != Pending && s != InProcess && s != Completed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status, or "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return getStatusStrings()[Unknown]
}

// Label returns the display form used on badges, e.g. "IN PROCESS".
func (s Status) Label() string {
	return strings.ToUpper(strings.ReplaceAll(s.String(), "_", " "))
}

// IsCompleted reports whether the order has been finalized.
func (s Status) IsCompleted() bool {
	return s == Completed
}

// Finalize returns Completed regardless of the current status.
//
// The transition is deliberately unguarded: Pending -> Completed skips InProcess,
// and finalizing an already completed order is a no-op. Callers that want a
// stricter workflow have to check the current status themselves.
func (s Status) Finalize() Status {
	return Completed
}
