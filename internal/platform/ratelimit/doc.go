// Package ratelimit decides whether a client may send another request.
//
// Two backends implement Limiter: an in-process token bucket per client and
// a fixed-window counter kept in Redis, which lets several server instances
// share one budget.
package ratelimit
