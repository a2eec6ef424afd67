package precedence

import (
	"context"

	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/schedule"
)

// access is one recorded operation of a transaction.
type access struct {
	op  schedule.Operation
	seq int
}

// AccessHistory maps each transaction to the operations it has performed so
// far, in temporal order. It is filled while events are replayed and is only
// ever appended to.
type AccessHistory struct {
	byTxn map[schedule.TxnID][]access
}

// NewAccessHistory creates an empty history.
func NewAccessHistory() *AccessHistory {
	return &AccessHistory{byTxn: make(map[schedule.TxnID][]access)}
}

// Record appends the event's operation to its transaction's history.
func (h *AccessHistory) Record(e schedule.Event) {
	h.byTxn[e.Txn] = append(h.byTxn[e.Txn], access{op: e.Op, seq: e.Seq})
}

// Operations returns the recorded operations of txn in temporal order.
func (h *AccessHistory) Operations(txn schedule.TxnID) []schedule.Operation {
	recorded := h.byTxn[txn]
	ops := make([]schedule.Operation, len(recorded))
	for i, a := range recorded {
		ops[i] = a.op
	}
	return ops
}

// ConflictsWith returns every operation in other's history that conflicts
// with the incoming event e. The whole history is scanned, not only the
// latest access, and Read-Read pairs never conflict.
func (h *AccessHistory) ConflictsWith(other schedule.TxnID, e schedule.Event) []Conflict {
	var conflicts []Conflict
	for _, prev := range h.byTxn[other] {
		if prev.op.Resource != e.Op.Resource {
			continue
		}
		var kind ConflictKind
		switch {
		case e.Op.Kind == schedule.Read && prev.op.Kind == schedule.Write:
			kind = WriteRead
		case e.Op.Kind == schedule.Write && prev.op.Kind == schedule.Write:
			kind = WriteWrite
		case e.Op.Kind == schedule.Write && prev.op.Kind == schedule.Read:
			kind = ReadWrite
		default:
			continue
		}
		conflicts = append(conflicts, Conflict{
			Kind:     kind,
			Resource: e.Op.Resource,
			FromSeq:  prev.seq,
			ToSeq:    e.Seq,
		})
	}
	return conflicts
}

// Build replays the schedule's events in order and returns its precedence
// graph. Every declared transaction becomes a node, even one without
// operations. Events referring to an undeclared transaction are rejected
// rather than silently added.
func Build(ctx context.Context, s *schedule.Schedule) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting precedence graph construction.", "transactions", len(s.Transactions), "events", len(s.Events))

	g := New()
	for _, id := range s.Transactions {
		if id == "" {
			return nil, &InvalidScheduleError{Txn: id, Seq: -1, Reason: "empty transaction name"}
		}
		if g.HasNode(id) {
			return nil, &InvalidScheduleError{Txn: id, Seq: -1, Reason: "transaction registered twice"}
		}
		g.AddNode(id)
	}

	history := NewAccessHistory()
	for _, e := range s.Events {
		if err := validateEvent(g, e); err != nil {
			return nil, err
		}

		for _, other := range g.nodes {
			if other.id == e.Txn {
				continue
			}
			for _, c := range history.ConflictsWith(other.id, e) {
				added, err := g.AddEdge(other.id, e.Txn, c)
				if err != nil {
					// Unreachable: both endpoints are registered and distinct.
					return nil, err
				}
				if added {
					logger.Debug("Build: edge added.", "from", other.id, "to", e.Txn, "conflict", c.String(), "seq", e.Seq)
				}
			}
		}

		// Recorded after the checks so an event never conflicts with itself.
		history.Record(e)
	}

	logger.Debug("Build: precedence graph complete.", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

func validateEvent(g *Graph, e schedule.Event) error {
	if !g.HasNode(e.Txn) {
		return &InvalidScheduleError{Txn: e.Txn, Seq: e.Seq, Reason: "transaction was never registered"}
	}
	if !e.Op.Kind.Valid() {
		return &InvalidScheduleError{Txn: e.Txn, Seq: e.Seq, Reason: "operation kind must be read or write"}
	}
	if e.Op.Resource == "" {
		return &InvalidScheduleError{Txn: e.Txn, Seq: e.Seq, Reason: "operation has no resource"}
	}
	return nil
}
