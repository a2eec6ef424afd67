// Package loader turns schedule files into schedule.Schedule values.
//
// Two layouts are supported. Grid formats (xlsx, csv, tsv) use the header row
// for transaction names and every following row as one time step; a cell holds
// an operation token such as R(x) or is left empty. Declarative formats (hcl,
// yaml) list the transactions and then an ordered list of steps, each mapping
// transaction names to tokens.
//
// In both layouts rows are temporal order and, within a row, operations are
// taken in transaction (column) order. A malformed token fails the load; it is
// never treated as an empty cell.
package loader
