package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		token     string
		expected  Operation
		expectErr error
	}{
		{name: "read", token: "R(x)", expected: Operation{Kind: Read, Resource: "x"}},
		{name: "write", token: "W(y)", expected: Operation{Kind: Write, Resource: "y"}},
		{name: "lowercase kind", token: "w(acct_1)", expected: Operation{Kind: Write, Resource: "acct_1"}},
		{name: "surrounding whitespace", token: "  R( item.7 )  ", expected: Operation{Kind: Read, Resource: "item.7"}},
		{name: "error - empty", token: "   ", expectErr: ErrUnknownOperation},
		{name: "error - unknown kind", token: "X(x)", expectErr: ErrUnknownOperation},
		{name: "error - commit token", token: "C", expectErr: ErrUnknownOperation},
		{name: "error - missing parens", token: "Rx", expectErr: ErrUnknownOperation},
		{name: "error - empty resource", token: "R()", expectErr: ErrMalformedResource},
		{name: "error - resource with space", token: "W(a b)", expectErr: ErrMalformedResource},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			op, err := ParseOperation(tc.token)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, op)
		})
	}
}

func TestOperation_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "R(x)", MustParseOperation("r(x)").String())
	assert.Equal(t, "W(acct)", Operation{Kind: Write, Resource: "acct"}.String())
	assert.Equal(t, "T2:W(y)", Event{Txn: "T2", Op: MustParseOperation("W(y)")}.String())
}

func TestMustParseOperation_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustParseOperation("nope") })
}
