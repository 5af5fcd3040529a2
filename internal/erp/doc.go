// Package erp fetches raw work-cycle records from the upstream manufacturing
// ERP over its JSON API.
//
// The client pages through the work-cycle endpoint with a configurable page
// size and a polite inter-page delay so a full sync does not hammer the
// upstream rate limits. Records arrive already field-normalized; the client
// maps them onto the engine's WorkCycle shape and tags them with the "erp"
// data source.
package erp
