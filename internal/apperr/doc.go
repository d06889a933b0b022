// Package apperr defines the errors an API request may legitimately fail
// with.
//
// Every anticipated failure is an *Error carrying one of four kinds. Each kind
// fixes the HTTP status and the error name clients see. Internal errors
// always present the same generic message; their cause is kept for logging
// only and never reaches a response body.
package apperr
