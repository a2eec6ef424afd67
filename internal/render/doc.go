// Package render turns analysis results into reports: a styled terminal
// summary, a JSON document and a Graphviz DOT drawing of the precedence graph.
package render
