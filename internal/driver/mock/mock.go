// Package mock provides a driver that answers from fixture files and keeps
// an in-memory configuration datastore, for development and tests without a
// real device.
package mock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"netcommand/internal/domain"
	"netcommand/internal/driver"
)

// Name is the registry name of the mock driver
const Name = "mock"

// ErrNotOpen is returned for calls made outside an open session
var ErrNotOpen = errors.New("mock: session is not open")

func init() {
	driver.Register(Name, New)
}

// device is the simulated box behind the driver. It outlives sessions, so a
// candidate loaded in one session can be committed in the next.
type device struct {
	mu     sync.Mutex
	calls  map[string]int
	store  *datastore
	booted time.Time
}

var (
	devicesMu sync.Mutex
	devices   = map[string]*device{}
)

func deviceFor(cfg domain.DriverConfig) *device {
	devicesMu.Lock()
	defer devicesMu.Unlock()

	if d, ok := devices[cfg.Hostname()]; ok {
		return d
	}
	d := &device{
		calls:  make(map[string]int),
		store:  newDatastore(cfg.OptionalString("running_config", defaultRunningConfig(cfg))),
		booted: time.Now(),
	}
	devices[cfg.Hostname()] = d
	return d
}

func defaultRunningConfig(cfg domain.DriverConfig) string {
	return fmt.Sprintf("hostname %s\n!\nend\n", cfg.Hostname())
}

// Driver is a session to a simulated device
type Driver struct {
	cfg      domain.DriverConfig
	path     string
	failOpen bool
	dev      *device

	mu   sync.Mutex
	open bool
}

// New creates a mock driver. Recognized optional args: path (fixture
// directory), fail_open and running_config.
func New(cfg domain.DriverConfig) (driver.Driver, error) {
	path := cfg.OptionalString("path", "")
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("mock fixture path: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("mock fixture path %s is not a directory", path)
		}
	}

	return &Driver{
		cfg:      cfg,
		path:     path,
		failOpen: cfg.OptionalBool("fail_open", false),
		dev:      deviceFor(cfg),
	}, nil
}

// Open starts the session
func (d *Driver) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.failOpen {
		return fmt.Errorf("mock: connection to %s refused", d.cfg.Hostname())
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	return nil
}

// Close ends the session
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	return nil
}

// IsAlive reports whether the session is open
func (d *Driver) IsAlive(ctx context.Context) (map[string]any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return map[string]any{"is_alive": d.open}, nil
}

// Call answers method from its fixture when one exists, then from the
// built-in simulation
func (d *Driver) Call(ctx context.Context, method string, args driver.Args) (any, error) {
	d.mu.Lock()
	open := d.open
	d.mu.Unlock()
	if !open {
		return nil, ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()

	d.dev.calls[method]++
	result, found, err := loadFixture(d.path, method, d.dev.calls[method])
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	return d.builtin(method, args)
}

func (d *Driver) builtin(method string, args driver.Args) (any, error) {
	store := d.dev.store
	switch method {
	case "get_facts":
		return d.facts(), nil
	case "load_replace_candidate":
		return nil, store.loadCandidate(args, false)
	case "load_merge_candidate":
		return nil, store.loadCandidate(args, true)
	case "load_template":
		return nil, store.loadTemplate(args)
	case "compare_config":
		return store.compare(), nil
	case "commit_config":
		store.commit()
		return nil, nil
	case "discard_config":
		store.discard()
		return nil, nil
	case "rollback":
		store.rollback()
		return nil, nil
	case "get_config":
		return store.config(args.String("retrieve"))
	default:
		return nil, fmt.Errorf("mock %s: %w", method, domain.ErrNotImplemented)
	}
}

func (d *Driver) facts() map[string]any {
	return map[string]any{
		"hostname":       d.cfg.Hostname(),
		"fqdn":           d.cfg.Hostname(),
		"vendor":         "Mock",
		"model":          "netcommand-mock",
		"os_version":     "1.0",
		"serial_number":  "MOCK0001",
		"uptime":         int(time.Since(d.dev.booted).Seconds()),
		"interface_list": []any{},
	}
}
