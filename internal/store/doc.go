// Package store defines interfaces for author and book persistence.
// These interfaces keep the HTTP handlers independent of the database
// engine; implementations live under internal/platform.
package store
