package schedule

import "fmt"

// TxnID identifies a transaction. It is the name of the column (or the
// declared label) the transaction's operations were recorded under.
type TxnID string

// OpKind is the kind of access an operation performs.
type OpKind int

const (
	// Read is a read access, written as R(x).
	Read OpKind = iota + 1
	// Write is a write access, written as W(x).
	Write
)

// String returns the single-letter token used in schedules.
func (k OpKind) String() string {
	switch k {
	case Read:
		return "R"
	case Write:
		return "W"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Valid reports whether k is Read or Write.
func (k OpKind) Valid() bool {
	return k == Read || k == Write
}

// Operation is a single access to a named resource. It is immutable once parsed.
type Operation struct {
	Kind     OpKind
	Resource string
}

// String renders the operation in its canonical token form, e.g. "W(x)".
func (o Operation) String() string {
	return fmt.Sprintf("%s(%s)", o.Kind, o.Resource)
}

// Event is one operation performed by one transaction at a position in the
// schedule's temporal order.
type Event struct {
	Txn TxnID
	Op  Operation
	// Seq is the event's index in temporal order, starting at 0. It is the
	// only ordering signal the analyzer uses.
	Seq int
	// Row is the 1-based data row (or step) the event was read from. Header
	// and comment lines are not counted.
	Row int
}

// String renders the event as "T1:R(x)".
func (e Event) String() string {
	return fmt.Sprintf("%s:%s", e.Txn, e.Op)
}

// Schedule is an ordered history of events together with every transaction
// that takes part in it, including transactions that performed no operation.
type Schedule struct {
	// Source names where the schedule was loaded from, for reporting.
	Source       string
	Transactions []TxnID
	Events       []Event
	// RowCount is the number of source rows, including rows without events.
	RowCount int
}

// OperationsOf returns the operations recorded for txn, in temporal order.
func (s *Schedule) OperationsOf(txn TxnID) []Operation {
	var ops []Operation
	for _, e := range s.Events {
		if e.Txn == txn {
			ops = append(ops, e.Op)
		}
	}
	return ops
}

// Rows regroups the events by source row, returning for every row a map of
// transaction to the token it performed. Rows without any event are kept as
// empty maps so the schedule can be printed back as a grid.
func (s *Schedule) Rows() []map[TxnID]string {
	maxRow := s.RowCount
	for _, e := range s.Events {
		if e.Row > maxRow {
			maxRow = e.Row
		}
	}
	rows := make([]map[TxnID]string, maxRow)
	for i := range rows {
		rows[i] = make(map[TxnID]string)
	}
	for _, e := range s.Events {
		if e.Row > 0 {
			rows[e.Row-1][e.Txn] = e.Op.String()
		}
	}
	return rows
}
