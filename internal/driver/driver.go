package driver

import (
	"context"

	"netcommand/internal/domain"
)

// Args holds named arguments forwarded to a driver method
type Args map[string]any

// String returns a string argument, or "" if absent or nil
func (a Args) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Driver talks to one network device. Implementations own all
// vendor-specific protocol work.
type Driver interface {
	// Open establishes the device session
	Open(ctx context.Context) error

	// Close tears the device session down
	Close() error

	// IsAlive reports the session state as {"is_alive": bool}
	IsAlive(ctx context.Context) (map[string]any, error)

	// Call invokes the named device operation (get_facts, ping, ...)
	// and returns its structured result
	Call(ctx context.Context, method string, args Args) (any, error)
}

// Factory builds an unopened driver for the configured device
type Factory func(cfg domain.DriverConfig) (Driver, error)
