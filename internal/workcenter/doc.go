// Package workcenter canonicalizes free-text work-center names from the ERP
// into the small fixed category set productivity is reported against.
package workcenter
