// Command takt is the CLI and daemon entry point for the UPH calculation
// service. Subcommands trigger calculation runs, import CSV work-cycle
// exports, inspect stored summaries and run history, and manage the
// long-running daemon.
package main
