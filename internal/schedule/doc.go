// Package schedule defines the recorded history that the analyzer consumes:
// transactions, their read/write operations, and the temporally ordered
// events that a loader produces from a tabular or declarative source.
//
// A Schedule is the only contract between a loader and the precedence graph
// builder. Loaders never construct one by hand; they feed cells into a Builder,
// which parses operation tokens, assigns sequence positions and guarantees that
// every event refers to a registered transaction.
package schedule
