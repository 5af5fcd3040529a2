// Package daemon coordinates the long-running takt process.
//
// It wires configuration, the SQLite store, the calculation runner, and the
// HTTP control API into a single lifecycle with flock-based locking to
// prevent multiple instances. When a sync interval is configured the daemon
// also triggers periodic ERP recalculation runs. Keep orchestration here;
// calculation semantics live in the runner and engine packages.
package daemon
