package precedence

import (
	"errors"
	"fmt"

	"github.com/vk/serialgraph/internal/schedule"
)

var (
	// ErrInvalidSchedule is the class of errors for event sequences the
	// builder refuses to process.
	ErrInvalidSchedule = errors.New("invalid schedule")
	// ErrSelfLoop is returned by AddEdge for an edge from a node to itself.
	ErrSelfLoop = errors.New("self-referential edge not allowed")
	// ErrUnknownNode is returned by AddEdge when an endpoint was never added.
	ErrUnknownNode = errors.New("node not found")
)

// InvalidScheduleError reports the event (or registration) that made a
// schedule unusable. Seq is -1 for problems in the transaction list itself.
type InvalidScheduleError struct {
	Txn    schedule.TxnID
	Seq    int
	Reason string
}

// Error implements the error interface.
func (e *InvalidScheduleError) Error() string {
	if e.Seq < 0 {
		return fmt.Sprintf("invalid schedule: transaction %q: %s", e.Txn, e.Reason)
	}
	return fmt.Sprintf("invalid schedule: event %d (transaction %q): %s", e.Seq, e.Txn, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidSchedule) hold.
func (e *InvalidScheduleError) Unwrap() error {
	return ErrInvalidSchedule
}
