package driver

import (
	"fmt"
	"sort"
	"sync"
)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a driver implementation available to Lookup.
// Implementations should call this from init().
func Register(name string, f Factory) {
	if name == "" {
		panic("driver: register with empty name")
	}
	if f == nil {
		panic("driver: register with nil factory")
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic("driver: duplicate register for " + name)
	}
	factories[name] = f
}

// Lookup returns the factory registered under name
func Lookup(name string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown driver %q (supported: %v)", name, supportedLocked())
	}
	return f, nil
}

// Supported returns the registered driver names in sorted order
func Supported() []string {
	mu.RLock()
	defer mu.RUnlock()
	return supportedLocked()
}

func supportedLocked() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
