// Package store persists UPH summaries and calculation run history in
// SQLite.
//
// Summaries follow a replace-not-merge lifecycle: every completed run swaps
// the entire result set inside one transaction, so readers never observe a
// mix of old and new rows and a failed run leaves the previous results
// untouched. Run rows are append-only history.
package store
