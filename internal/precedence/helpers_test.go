package precedence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/serialgraph/internal/schedule"
)

// mustSchedule builds a schedule from a compact history such as
// "T1:R(x) T2:W(x)", one event per row. Transactions are registered in the
// order given by txns.
func mustSchedule(t *testing.T, txns []string, history string) *schedule.Schedule {
	t.Helper()
	b := schedule.NewBuilder(t.Name())
	for _, name := range txns {
		_, err := b.Declare(name)
		require.NoError(t, err)
	}
	for _, ev := range strings.Fields(history) {
		txn, token, ok := strings.Cut(ev, ":")
		require.True(t, ok, "bad event %q", ev)
		require.NoError(t, b.AppendRow(schedule.Cell{Txn: txn, Token: token}))
	}
	return b.Build()
}

// edgeSet flattens a graph's edges into "from->to" strings.
func edgeSet(g *Graph) []string {
	var out []string
	for _, e := range g.Edges() {
		out = append(out, string(e.From)+"->"+string(e.To))
	}
	return out
}

func conflict(kind ConflictKind, resource string) Conflict {
	return Conflict{Kind: kind, Resource: resource}
}
