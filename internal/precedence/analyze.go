package precedence

import (
	"context"
	"fmt"

	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/schedule"
)

// Options tunes the optional diagnostics of Analyze.
type Options struct {
	// CycleLimit enables simple-cycle enumeration, reporting at most this
	// many cycles. Zero disables enumeration.
	CycleLimit int
}

// Result is everything one analysis run produced. The graph must be treated
// as read-only once returned.
type Result struct {
	Schedule *schedule.Schedule
	Graph    *Graph
	Verdict  Verdict
	// Cycle is a witness cycle when the schedule is not serializable.
	Cycle []schedule.TxnID
	// Cycles holds enumerated simple cycles when Options.CycleLimit > 0.
	Cycles [][]schedule.TxnID
	// SerialOrder is an equivalent serial order when the schedule is serializable.
	SerialOrder []schedule.TxnID
}

// Analyze builds the precedence graph of s and derives the verdict.
func Analyze(ctx context.Context, s *schedule.Schedule, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	g, err := Build(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("failed to build precedence graph: %w", err)
	}

	res := &Result{
		Schedule: s,
		Graph:    g,
		Verdict:  Serializable,
		Cycle:    g.FindCycle(),
	}
	if res.Cycle != nil {
		res.Verdict = NotSerializable
	} else {
		res.SerialOrder, _ = g.SerialOrder()
	}
	if opts.CycleLimit > 0 && res.Cycle != nil {
		res.Cycles = g.SimpleCycles(opts.CycleLimit)
	}

	logger.Debug("Analyze: verdict reached.", "verdict", res.Verdict.String(), "edges", g.EdgeCount(), "cycle", res.Cycle)
	return res, nil
}
