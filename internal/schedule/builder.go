package schedule

import (
	"fmt"
	"strings"
)

// Builder accumulates a Schedule row by row. Loaders declare the transactions
// first (the columns of a grid) and then append one row per time step.
type Builder struct {
	source string
	txns   []TxnID
	known  map[TxnID]struct{}
	events []Event
	rows   int
}

// NewBuilder creates an empty builder for the named source.
func NewBuilder(source string) *Builder {
	return &Builder{
		source: source,
		known:  make(map[TxnID]struct{}),
	}
}

// Declare registers a transaction. Names are trimmed; blank or repeated names
// are rejected.
func (b *Builder) Declare(name string) (TxnID, error) {
	id := TxnID(strings.TrimSpace(name))
	if id == "" {
		return "", ErrEmptyTransaction
	}
	if _, ok := b.known[id]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateTransaction, id)
	}
	b.known[id] = struct{}{}
	b.txns = append(b.txns, id)
	return id, nil
}

// Declared reports whether a transaction with the given name was registered.
func (b *Builder) Declared(name string) bool {
	_, ok := b.known[TxnID(strings.TrimSpace(name))]
	return ok
}

// Cell is one (transaction, token) pair within a row.
type Cell struct {
	Txn   string
	Token string
}

// AppendRow records one time step. Cells are consumed in the given order and
// blank tokens are skipped. Two operations for the same transaction in one
// row are rejected. The row is counted even when every cell is blank,
// so row numbers in errors match the source.
func (b *Builder) AppendRow(cells ...Cell) error {
	b.rows++
	seen := make(map[TxnID]struct{}, len(cells))
	for _, c := range cells {
		if strings.TrimSpace(c.Token) == "" {
			continue
		}
		id := TxnID(strings.TrimSpace(c.Txn))
		if _, ok := b.known[id]; !ok {
			return &ParseError{Txn: id, Row: b.rows, Token: c.Token, Err: ErrUnknownTransaction}
		}
		// A transaction performs at most one operation per row.
		if _, dup := seen[id]; dup {
			return &ParseError{Txn: id, Row: b.rows, Token: c.Token, Err: ErrDuplicateTransaction}
		}
		seen[id] = struct{}{}
		op, err := ParseOperation(c.Token)
		if err != nil {
			return &ParseError{Txn: id, Row: b.rows, Token: c.Token, Err: err}
		}
		b.events = append(b.events, Event{
			Txn: id,
			Op:  op,
			Seq: len(b.events),
			Row: b.rows,
		})
	}
	return nil
}

// Build returns the accumulated schedule. The builder may keep being used;
// the returned schedule does not share slices with it.
func (b *Builder) Build() *Schedule {
	txns := make([]TxnID, len(b.txns))
	copy(txns, b.txns)
	events := make([]Event, len(b.events))
	copy(events, b.events)
	return &Schedule{
		Source:       b.source,
		Transactions: txns,
		Events:       events,
		RowCount:     b.rows,
	}
}
