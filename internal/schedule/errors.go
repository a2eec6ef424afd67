package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOperation is returned for a token whose kind is not R or W or
	// that does not follow the K(resource) shape.
	ErrUnknownOperation = errors.New("unrecognized operation token")
	// ErrMalformedResource is returned when the resource between the
	// parentheses is empty or contains unsupported characters.
	ErrMalformedResource = errors.New("malformed resource identifier")
	// ErrEmptyTransaction is returned when a transaction name is blank.
	ErrEmptyTransaction = errors.New("transaction name cannot be empty")
	// ErrDuplicateTransaction is returned when a transaction is declared twice.
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	// ErrUnknownTransaction is returned when an operation names a transaction
	// that was never declared.
	ErrUnknownTransaction = errors.New("unknown transaction")
)

// ParseError describes a cell of the source schedule that could not be decoded.
type ParseError struct {
	Txn TxnID
	// Row is the 1-based data row (or step), not counting header or comment lines.
	Row   int
	Token string
	Err   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Txn == "" {
		return fmt.Sprintf("data row %d: %q: %v", e.Row, e.Token, e.Err)
	}
	return fmt.Sprintf("data row %d, transaction %s: %q: %v", e.Row, e.Txn, e.Token, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ParseError) Unwrap() error {
	return e.Err
}
