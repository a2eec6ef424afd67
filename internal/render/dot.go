package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDOT writes the precedence graph as a Graphviz digraph. Edges on the
// witness cycle are drawn in red.
func WriteDOT(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "digraph %s {\n", strconv.Quote("precedence"))
	fmt.Fprintf(bw, "  label=%s;\n", strconv.Quote(r.Source+": "+r.Verdict.String()))
	fmt.Fprintln(bw, "  labelloc=t;")
	fmt.Fprintln(bw, "  node [shape=circle];")

	for _, txn := range r.Transactions {
		fmt.Fprintf(bw, "  %s;\n", strconv.Quote(string(txn)))
	}
	for _, e := range r.Edges {
		attrs := fmt.Sprintf("label=%s", strconv.Quote(e.Label()))
		if r.onCycle(e.From, e.To) {
			attrs += ", color=red, penwidth=2"
		}
		fmt.Fprintf(bw, "  %s -> %s [%s];\n", strconv.Quote(string(e.From)), strconv.Quote(string(e.To)), attrs)
	}
	fmt.Fprintln(bw, "}")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write dot graph: %w", err)
	}
	return nil
}
