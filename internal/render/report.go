package render

import (
	"fmt"
	"strings"

	"github.com/vk/serialgraph/internal/precedence"
	"github.com/vk/serialgraph/internal/schedule"
)

// Report is the renderer-neutral view of one analysis. It is what the JSON
// output and the publisher emit.
type Report struct {
	Source       string             `json:"source"`
	RunID        string             `json:"run_id,omitempty"`
	Verdict      precedence.Verdict `json:"verdict"`
	Serializable bool               `json:"serializable"`
	Transactions []schedule.TxnID   `json:"transactions"`
	// Steps holds one entry per source row, aligned with Transactions. An
	// empty string means the transaction did nothing in that row.
	Steps       [][]string         `json:"steps"`
	Edges       []EdgeReport       `json:"edges"`
	Cycle       []schedule.TxnID   `json:"cycle,omitempty"`
	Cycles      [][]schedule.TxnID `json:"cycles,omitempty"`
	SerialOrder []schedule.TxnID   `json:"serial_order,omitempty"`
}

// EdgeReport is one precedence edge with the conflicts that induced it.
type EdgeReport struct {
	From      schedule.TxnID   `json:"from"`
	To        schedule.TxnID   `json:"to"`
	Conflicts []ConflictReport `json:"conflicts"`
}

// ConflictReport describes a single conflicting pair of operations.
type ConflictReport struct {
	Kind     precedence.ConflictKind `json:"kind"`
	Resource string                  `json:"resource"`
	FromSeq  int                     `json:"from_seq"`
	ToSeq    int                     `json:"to_seq"`
}

// Label renders the edge's conflicts as "RW(y), WR(x)".
func (e EdgeReport) Label() string {
	labels := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		labels[i] = fmt.Sprintf("%s(%s)", c.Kind, c.Resource)
	}
	return strings.Join(labels, ", ")
}

// NewReport builds a report from an analysis result. runID may be empty.
func NewReport(res *precedence.Result, runID string) *Report {
	s := res.Schedule
	r := &Report{
		Source:       s.Source,
		RunID:        runID,
		Verdict:      res.Verdict,
		Serializable: res.Verdict == precedence.Serializable,
		Transactions: append([]schedule.TxnID(nil), s.Transactions...),
		Cycle:        res.Cycle,
		Cycles:       res.Cycles,
		SerialOrder:  res.SerialOrder,
	}

	rows := s.Rows()
	r.Steps = make([][]string, len(rows))
	for i, row := range rows {
		step := make([]string, len(s.Transactions))
		for j, txn := range s.Transactions {
			step[j] = row[txn]
		}
		r.Steps[i] = step
	}

	edges := res.Graph.Edges()
	r.Edges = make([]EdgeReport, len(edges))
	for i, e := range edges {
		er := EdgeReport{From: e.From, To: e.To, Conflicts: make([]ConflictReport, len(e.Conflicts))}
		for j, c := range e.Conflicts {
			er.Conflicts[j] = ConflictReport{Kind: c.Kind, Resource: c.Resource, FromSeq: c.FromSeq, ToSeq: c.ToSeq}
		}
		r.Edges[i] = er
	}
	return r
}

// onCycle reports whether from→to is a step of the witness cycle.
func (r *Report) onCycle(from, to schedule.TxnID) bool {
	for i := 0; i+1 < len(r.Cycle); i++ {
		if r.Cycle[i] == from && r.Cycle[i+1] == to {
			return true
		}
	}
	return false
}
