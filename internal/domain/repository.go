package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching reconciled orders
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// DiagnosticReporter receives every diagnostic event the engine emits.
// Implementations must be safe for concurrent use.
type DiagnosticReporter interface {
	Report(d Diagnostic)
}

// NopReporter discards diagnostics
type NopReporter struct{}

// Report implements DiagnosticReporter
func (NopReporter) Report(Diagnostic) {}
