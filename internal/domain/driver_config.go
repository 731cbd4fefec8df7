package domain

import (
	"fmt"
	"time"
)

// DefaultTimeout is the device timeout used when none is configured
const DefaultTimeout = 60 * time.Second

// DriverConfig holds everything a driver needs to reach one device.
// It is built once at startup and never mutated afterwards.
type DriverConfig struct {
	driver       string
	hostname     string
	username     string
	password     string
	timeout      time.Duration
	optionalArgs map[string]any
}

// NewDriverConfig creates a DriverConfig. optionalArgs is copied deeply,
// nested maps and lists included, so later changes to the caller's values
// are not observed.
func NewDriverConfig(driver, hostname, username, password string, timeout time.Duration, optionalArgs map[string]any) DriverConfig {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return DriverConfig{
		driver:       driver,
		hostname:     hostname,
		username:     username,
		password:     password,
		timeout:      timeout,
		optionalArgs: copyArgs(optionalArgs),
	}
}

// Driver returns the driver identifier (e.g. "mock", "ssh")
func (c DriverConfig) Driver() string { return c.driver }

// Hostname returns the device address
func (c DriverConfig) Hostname() string { return c.hostname }

// Username returns the login user
func (c DriverConfig) Username() string { return c.username }

// Password returns the login password
func (c DriverConfig) Password() string { return c.password }

// Timeout returns the device timeout forwarded to the driver
func (c DriverConfig) Timeout() time.Duration { return c.timeout }

// OptionalArgs returns a deep copy of the driver-specific options
func (c DriverConfig) OptionalArgs() map[string]any {
	return copyArgs(c.optionalArgs)
}

// OptionalString returns a string option, or def if absent or not a string
func (c DriverConfig) OptionalString(key, def string) string {
	if v, ok := c.optionalArgs[key].(string); ok {
		return v
	}
	return def
}

// OptionalInt returns an integer option, or def if absent or not a whole
// number that fits in an int
func (c DriverConfig) OptionalInt(key string, def int) int {
	if n, ok := IntValue(c.optionalArgs[key]); ok {
		return n
	}
	return def
}

// OptionalBool returns a boolean option, or def if absent
func (c DriverConfig) OptionalBool(key string, def bool) bool {
	if v, ok := c.optionalArgs[key].(bool); ok {
		return v
	}
	return def
}

// String describes the target without exposing the password
func (c DriverConfig) String() string {
	return fmt.Sprintf("%s://%s@%s", c.driver, c.username, c.hostname)
}

func copyArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = copyValue(v)
	}
	return out
}

// copyValue copies the container types decoders produce. Scalars are
// returned as is.
func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return copyArgs(v)
	case map[any]any:
		out := make(map[any]any, len(v))
		for k, item := range v {
			out[k] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
