// Package ingest reads work-cycle CSV exports into the engine's input shape.
//
// The reader expects the normalized header set (operator_name, work_center,
// routing, mo_number, mo_quantity, duration_seconds, plus optional operation
// and state columns). Rows with missing required fields or unparseable
// numbers are skipped and counted, never fatal. Operator display names are
// canonicalized so casing variants of the same person do not split UPH
// groups.
package ingest
