package precedence

import (
	"fmt"

	"github.com/vk/serialgraph/internal/schedule"
)

// Verdict is the outcome of the serializability check.
type Verdict int

const (
	// Serializable means the precedence graph is acyclic.
	Serializable Verdict = iota + 1
	// NotSerializable means the precedence graph has a directed cycle.
	NotSerializable
)

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v {
	case Serializable:
		return "serializable"
	case NotSerializable:
		return "not serializable"
	default:
		return "unknown"
	}
}

// MarshalText encodes the verdict as its string form.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a verdict written by MarshalText.
func (v *Verdict) UnmarshalText(text []byte) error {
	switch string(text) {
	case "serializable":
		*v = Serializable
	case "not serializable":
		*v = NotSerializable
	default:
		return fmt.Errorf("unknown verdict %q", text)
	}
	return nil
}

const (
	white = iota // not visited
	grey         // on the current DFS path
	black        // fully explored
)

// FindCycle returns one directed cycle as a closed walk [a, b, ..., a], or
// nil if the graph is acyclic. It is an iterative three-colour depth-first
// search started from every unvisited node in registration order, so the
// witness is deterministic.
func (g *Graph) FindCycle() []schedule.TxnID {
	color := make([]int, len(g.nodes))
	parent := make([]int, len(g.nodes))

	type frame struct {
		v    int
		succ []int
		next int
	}

	for start := range g.nodes {
		if color[start] != white {
			continue
		}
		color[start] = grey
		parent[start] = -1
		stack := []frame{{v: start, succ: g.successors(start)}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.succ) {
				color[top.v] = black
				stack = stack[:len(stack)-1]
				continue
			}
			w := top.succ[top.next]
			top.next++

			switch color[w] {
			case white:
				color[w] = grey
				parent[w] = top.v
				stack = append(stack, frame{v: w, succ: g.successors(w)})
			case grey:
				return g.closeCycle(parent, top.v, w)
			}
		}
	}
	return nil
}

// closeCycle rebuilds the cycle w -> ... -> v -> w from the DFS parent links,
// given the back edge v -> w.
func (g *Graph) closeCycle(parent []int, v, w int) []schedule.TxnID {
	var rev []int
	for cur := v; cur != w; cur = parent[cur] {
		rev = append(rev, cur)
	}
	rev = append(rev, w)

	cycle := make([]schedule.TxnID, 0, len(rev)+1)
	for i := len(rev) - 1; i >= 0; i-- {
		cycle = append(cycle, g.nodes[rev[i]].id)
	}
	return append(cycle, g.nodes[w].id)
}

// HasCycle reports whether the graph contains a directed cycle.
func (g *Graph) HasCycle() bool {
	return g.FindCycle() != nil
}

// Verdict derives the serializability verdict from cycle existence.
func (g *Graph) Verdict() Verdict {
	if g.HasCycle() {
		return NotSerializable
	}
	return Serializable
}

// SimpleCycles enumerates elementary cycles, each as a closed walk starting
// at its earliest-registered node. Enumeration stops after limit cycles when
// limit > 0. The number of cycles can grow exponentially with the graph, so
// callers should bound it.
func (g *Graph) SimpleCycles(limit int) [][]schedule.TxnID {
	var cycles [][]schedule.TxnID
	onPath := make([]bool, len(g.nodes))
	var path []int

	full := func() bool { return limit > 0 && len(cycles) >= limit }

	var walk func(start, v int)
	walk = func(start, v int) {
		path = append(path, v)
		onPath[v] = true
		for _, w := range g.successors(v) {
			if full() {
				break
			}
			if w == start {
				cycle := append(g.ids(path), g.nodes[start].id)
				cycles = append(cycles, cycle)
				continue
			}
			// Only nodes after start are explored so each cycle is reported
			// once, from its lowest index.
			if w > start && !onPath[w] {
				walk(start, w)
			}
		}
		onPath[v] = false
		path = path[:len(path)-1]
	}

	for start := range g.nodes {
		if full() {
			break
		}
		walk(start, start)
	}
	return cycles
}

// SerialOrder returns an order of the transactions consistent with every
// edge, i.e. an equivalent serial schedule. Ties are broken by registration
// order. The boolean is false when the graph has a cycle.
func (g *Graph) SerialOrder() ([]schedule.TxnID, bool) {
	indegree := make([]int, len(g.nodes))
	for i, n := range g.nodes {
		indegree[i] = len(n.in)
	}
	placed := make([]bool, len(g.nodes))

	order := make([]schedule.TxnID, 0, len(g.nodes))
	for len(order) < len(g.nodes) {
		next := -1
		for i := range g.nodes {
			if !placed[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, false
		}
		placed[next] = true
		order = append(order, g.nodes[next].id)
		for _, j := range g.successors(next) {
			indegree[j]--
		}
	}
	return order, true
}
