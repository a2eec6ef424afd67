// Package precedence builds the precedence graph of a recorded schedule and
// decides whether the schedule is conflict-serializable.
//
// Nodes are transactions. An edge Ti -> Tj means an operation of Ti conflicts
// with a later operation of Tj on the same resource, so Ti must precede Tj in
// any equivalent serial schedule. Two operations conflict when they belong to
// different transactions, touch the same resource, and at least one of them
// is a write. The schedule is conflict-serializable exactly when the graph is
// acyclic.
//
// The package is purely computational: Build and Analyze never block, never
// share state between calls and always return the same graph for the same
// input.
package precedence
