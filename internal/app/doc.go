// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the analysis lifecycle (discover, load,
// analyze, render, publish, watch), decoupled from any specific entrypoint
// like a CLI.
package app
