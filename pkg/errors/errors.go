package errors

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// Option errors
	ErrInvalidQueries = errors.New("number of queries must be positive")
	ErrInvalidTimeout = errors.New("timeout must not be negative")
	ErrInvalidDelay   = errors.New("delay must not be negative")
	ErrNoPorts        = errors.New("at least one port is required")

	// Probe errors
	ErrResolveFailed = errors.New("name resolution failed")
	ErrWaitFailed    = errors.New("readiness wait failed")
)

// ResolveError represents a failure to resolve a target into endpoints
type ResolveError struct {
	Host string
	Port string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s port %s: %v", e.Host, e.Port, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// WaitError represents a fatal failure of the readiness-wait facility
type WaitError struct {
	Op  string
	Err error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *WaitError) Unwrap() error {
	return e.Err
}

// SocketError represents a per-socket operation failure
type SocketError struct {
	Op   string
	Addr string
	Err  error
}

func (e *SocketError) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SocketError) Unwrap() error {
	return e.Err
}
