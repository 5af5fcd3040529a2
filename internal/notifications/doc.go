// Package notifications delivers calculation-run events to Slack.
//
// When no webhook is configured a noop implementation is returned, so callers
// never branch on whether notifications are enabled. Delivery failures are
// the caller's to log; they never fail a run.
package notifications
