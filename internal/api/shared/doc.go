// Package shared holds the small HTTP helpers used by both the api package
// and its middleware: trace IDs in the request context and JSON responses.
package shared
