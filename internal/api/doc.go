// Package api defines the wire types shared by the daemon's HTTP surface
// and the CLI client. Keeping them in one place means both ends marshal the
// same shapes.
package api
