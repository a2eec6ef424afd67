package precedence

import (
	"fmt"
	"sort"

	"github.com/vk/serialgraph/internal/schedule"
)

// ConflictKind names the pair of accesses behind an edge, earlier access first.
type ConflictKind string

const (
	// ReadWrite: the source read a resource the target later wrote.
	ReadWrite ConflictKind = "RW"
	// WriteRead: the source wrote a resource the target later read.
	WriteRead ConflictKind = "WR"
	// WriteWrite: both wrote the resource, source first.
	WriteWrite ConflictKind = "WW"
)

// Conflict is one pair of conflicting operations that justifies an edge.
type Conflict struct {
	Kind     ConflictKind
	Resource string
	// FromSeq and ToSeq are the sequence positions of the earlier and the
	// later operation.
	FromSeq int
	ToSeq   int
}

// String renders the conflict as "RW(x)".
func (c Conflict) String() string {
	return fmt.Sprintf("%s(%s)", c.Kind, c.Resource)
}

// Edge is a directed precedence edge together with every conflict observed
// between its endpoints in that direction.
type Edge struct {
	From      schedule.TxnID
	To        schedule.TxnID
	Conflicts []Conflict
}

// Graph is a precedence graph. Nodes are stored arena-style in registration
// order and referenced by index, which is also the deterministic iteration
// order of every query. A Graph belongs to a single analysis run and is not
// safe for concurrent mutation.
type Graph struct {
	index map[schedule.TxnID]int
	nodes []*node
	edges int
}

// node is a single vertex. It is un-exported so callers go through the
// graph's ID-based API.
type node struct {
	id schedule.TxnID
	// out holds edges to successors, keyed by successor index.
	out map[int]*Edge
	// in holds the indices of predecessors.
	in map[int]struct{}
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		index: make(map[schedule.TxnID]int),
	}
}

// AddNode adds a node for the transaction. Adding an existing node does nothing.
func (g *Graph) AddNode(id schedule.TxnID) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, &node{
		id:  id,
		out: make(map[int]*Edge),
		in:  make(map[int]struct{}),
	})
}

// AddEdge records that `from` must precede `to` because of the given
// conflict. The edge set only grows: an existing edge is kept and the
// conflict is appended to it. It reports whether a new edge was created.
func (g *Graph) AddEdge(from, to schedule.TxnID, c Conflict) (bool, error) {
	if from == to {
		return false, fmt.Errorf("%w: %s -> %s", ErrSelfLoop, from, to)
	}
	fi, ok := g.index[from]
	if !ok {
		return false, fmt.Errorf("source %w: %s", ErrUnknownNode, from)
	}
	ti, ok := g.index[to]
	if !ok {
		return false, fmt.Errorf("destination %w: %s", ErrUnknownNode, to)
	}

	fromNode := g.nodes[fi]
	if e, exists := fromNode.out[ti]; exists {
		e.Conflicts = append(e.Conflicts, c)
		return false, nil
	}

	fromNode.out[ti] = &Edge{From: from, To: to, Conflicts: []Conflict{c}}
	g.nodes[ti].in[fi] = struct{}{}
	g.edges++
	return true, nil
}

// Nodes returns the transaction IDs in registration order.
func (g *Graph) Nodes() []schedule.TxnID {
	ids := make([]schedule.TxnID, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.id
	}
	return ids
}

// HasNode reports whether the transaction is a node of the graph.
func (g *Graph) HasNode(id schedule.TxnID) bool {
	_, ok := g.index[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct directed edges.
func (g *Graph) EdgeCount() int { return g.edges }

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to schedule.TxnID) bool {
	_, ok := g.Edge(from, to)
	return ok
}

// Edge returns a copy of the edge from -> to.
func (g *Graph) Edge(from, to schedule.TxnID) (Edge, bool) {
	fi, ok := g.index[from]
	if !ok {
		return Edge{}, false
	}
	ti, ok := g.index[to]
	if !ok {
		return Edge{}, false
	}
	e, ok := g.nodes[fi].out[ti]
	if !ok {
		return Edge{}, false
	}
	return copyEdge(e), true
}

// Edges returns copies of all edges ordered by source, then target, in
// registration order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for i := range g.nodes {
		for _, j := range g.successors(i) {
			edges = append(edges, copyEdge(g.nodes[i].out[j]))
		}
	}
	return edges
}

// Successors returns the transactions that must follow id.
func (g *Graph) Successors(id schedule.TxnID) ([]schedule.TxnID, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return g.ids(g.successors(i)), nil
}

// Predecessors returns the transactions that must precede id.
func (g *Graph) Predecessors(id schedule.TxnID) ([]schedule.TxnID, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return g.ids(sortedKeys(g.nodes[i].in)), nil
}

// successors returns successor indices of node i in ascending order.
func (g *Graph) successors(i int) []int {
	return sortedKeys(g.nodes[i].out)
}

func (g *Graph) ids(indices []int) []schedule.TxnID {
	ids := make([]schedule.TxnID, len(indices))
	for k, idx := range indices {
		ids[k] = g.nodes[idx].id
	}
	return ids
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func copyEdge(e *Edge) Edge {
	conflicts := make([]Conflict, len(e.Conflicts))
	copy(conflicts, e.Conflicts)
	return Edge{From: e.From, To: e.To, Conflicts: conflicts}
}
