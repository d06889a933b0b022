// Package testutils provides factories and HTTP helpers shared by tests.
package testutils
