// Package uph derives Units Per Hour productivity figures from raw ERP work
// cycles.
//
// The engine is a pure batch transformation: group cycles per manufacturing
// order, convert each order into a single UPH observation, drop implausible
// observations, and average the survivors per (operator, work center,
// routing). Compute performs no I/O and holds no state between runs; every
// invocation is a full recompute over the supplied records.
package uph
