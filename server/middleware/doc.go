// Package middleware holds the Gin middleware installed by
// server.ApplyMiddleware.
package middleware
