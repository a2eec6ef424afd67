// Package cli is responsible for parsing command-line arguments and flags.
// It translates user input into an app.Config and reports usage errors as
// ExitError values carrying the process exit code.
package cli
