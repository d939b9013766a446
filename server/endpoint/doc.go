// Package endpoint provides the default /health and /version handlers.
package endpoint
