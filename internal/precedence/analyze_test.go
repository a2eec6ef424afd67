package precedence

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/schedule"
)

func TestAnalyze_Serializable(t *testing.T) {
	t.Parallel()

	s := mustSchedule(t, []string{"T1", "T2", "T3"}, "T2:W(x) T1:R(x) T3:R(y)")

	res, err := Analyze(context.Background(), s, Options{CycleLimit: 10})
	require.NoError(t, err)

	assert.Same(t, s, res.Schedule)
	assert.Equal(t, Serializable, res.Verdict)
	assert.Nil(t, res.Cycle)
	assert.Empty(t, res.Cycles)
	assert.Equal(t, []schedule.TxnID{"T2", "T1", "T3"}, res.SerialOrder)
}

func TestAnalyze_NotSerializable(t *testing.T) {
	t.Parallel()

	s := mustSchedule(t, []string{"T1", "T2"}, "T1:R(x) T2:W(x) T1:W(x)")

	res, err := Analyze(context.Background(), s, Options{CycleLimit: 5})
	require.NoError(t, err)

	assert.Equal(t, NotSerializable, res.Verdict)
	assert.Equal(t, []schedule.TxnID{"T1", "T2", "T1"}, res.Cycle)
	assert.Equal(t, [][]schedule.TxnID{{"T1", "T2", "T1"}}, res.Cycles)
	assert.Nil(t, res.SerialOrder)
}

func TestAnalyze_CycleEnumerationDisabled(t *testing.T) {
	t.Parallel()

	s := mustSchedule(t, []string{"T1", "T2"}, "T1:W(x) T2:R(x) T2:W(y) T1:R(y)")

	res, err := Analyze(context.Background(), s, Options{})
	require.NoError(t, err)
	assert.Equal(t, NotSerializable, res.Verdict)
	assert.NotNil(t, res.Cycle)
	assert.Nil(t, res.Cycles)
}

func TestAnalyze_WrapsBuildErrors(t *testing.T) {
	t.Parallel()

	s := &schedule.Schedule{
		Transactions: []schedule.TxnID{"T1"},
		Events:       []schedule.Event{{Txn: "T9", Op: schedule.MustParseOperation("R(x)")}},
	}

	_, err := Analyze(context.Background(), s, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	assert.ErrorContains(t, err, "failed to build precedence graph")
}

func TestAnalyze_LogsThroughContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	s := mustSchedule(t, []string{"T1", "T2"}, "T1:R(x) T2:W(x)")
	_, err := Analyze(ctx, s, Options{})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Build: edge added.")
	assert.Contains(t, buf.String(), "verdict=serializable")
}
