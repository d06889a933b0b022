// Package middleware contains the HTTP middleware wrapped around the API
// routes: request tracing, panic recovery, rate limiting and metrics.
package middleware

import "net/http"

// ErrorHandler writes the response for an error raised by a middleware.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
