package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Declare(t *testing.T) {
	t.Parallel()

	b := NewBuilder("test")

	id, err := b.Declare(" T1 ")
	require.NoError(t, err)
	assert.Equal(t, TxnID("T1"), id)
	assert.True(t, b.Declared("T1"))

	_, err = b.Declare("T1")
	assert.ErrorIs(t, err, ErrDuplicateTransaction)

	_, err = b.Declare("  ")
	assert.ErrorIs(t, err, ErrEmptyTransaction)
}

func TestBuilder_AppendRow(t *testing.T) {
	t.Parallel()

	b := NewBuilder("grid.csv")
	for _, name := range []string{"T1", "T2", "T3"} {
		_, err := b.Declare(name)
		require.NoError(t, err)
	}

	require.NoError(t, b.AppendRow(Cell{"T1", "R(x)"}, Cell{"T2", ""}, Cell{"T3", "W(y)"}))
	require.NoError(t, b.AppendRow()) // blank row still advances the row counter
	require.NoError(t, b.AppendRow(Cell{"T2", "W(x)"}))

	s := b.Build()
	assert.Equal(t, "grid.csv", s.Source)
	assert.Equal(t, []TxnID{"T1", "T2", "T3"}, s.Transactions)
	assert.Equal(t, 3, s.RowCount)
	require.Len(t, s.Events, 3)

	assert.Equal(t, Event{Txn: "T1", Op: Operation{Read, "x"}, Seq: 0, Row: 1}, s.Events[0])
	assert.Equal(t, Event{Txn: "T3", Op: Operation{Write, "y"}, Seq: 1, Row: 1}, s.Events[1])
	assert.Equal(t, Event{Txn: "T2", Op: Operation{Write, "x"}, Seq: 2, Row: 3}, s.Events[2])

	rows := s.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, map[TxnID]string{"T1": "R(x)", "T3": "W(y)"}, rows[0])
	assert.Empty(t, rows[1])
	assert.Equal(t, map[TxnID]string{"T2": "W(x)"}, rows[2])

	assert.Equal(t, []Operation{{Write, "x"}}, s.OperationsOf("T2"))
	assert.Empty(t, s.OperationsOf("T4"))
}

func TestBuilder_AppendRowErrors(t *testing.T) {
	t.Parallel()

	t.Run("bad token", func(t *testing.T) {
		b := NewBuilder("")
		_, _ = b.Declare("T1")
		require.NoError(t, b.AppendRow(Cell{"T1", "R(x)"}))

		err := b.AppendRow(Cell{"T1", "Q(x)"})
		require.Error(t, err)

		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, 2, perr.Row)
		assert.Equal(t, TxnID("T1"), perr.Txn)
		assert.Equal(t, "Q(x)", perr.Token)
		assert.ErrorIs(t, err, ErrUnknownOperation)
		assert.Contains(t, err.Error(), "data row 2, transaction T1")
	})

	t.Run("same transaction twice in one row", func(t *testing.T) {
		b := NewBuilder("")
		_, _ = b.Declare("T1")
		_, _ = b.Declare("T2")

		err := b.AppendRow(Cell{"T1", "R(x)"}, Cell{"T2", ""}, Cell{" T1 ", "W(x)"})

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.ErrorIs(t, err, ErrDuplicateTransaction)
		assert.Equal(t, TxnID("T1"), perr.Txn)
		assert.Equal(t, 1, perr.Row)
		assert.Equal(t, "W(x)", perr.Token)
	})

	t.Run("undeclared transaction", func(t *testing.T) {
		b := NewBuilder("")
		_, _ = b.Declare("T1")
		err := b.AppendRow(Cell{"T9", "W(x)"})
		assert.ErrorIs(t, err, ErrUnknownTransaction)
	})
}

func TestBuilder_BuildIsACopy(t *testing.T) {
	t.Parallel()

	b := NewBuilder("")
	_, _ = b.Declare("T1")
	require.NoError(t, b.AppendRow(Cell{"T1", "R(x)"}))

	first := b.Build()
	require.NoError(t, b.AppendRow(Cell{"T1", "W(x)"}))
	second := b.Build()

	assert.Len(t, first.Events, 1)
	assert.Len(t, second.Events, 2)
}
