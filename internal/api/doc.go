// Package api exposes authors and books over HTTP. It owns the request and
// response schemas, the route table, the resource handlers, and the single
// function that turns any handler error into the canonical error response.
package api
