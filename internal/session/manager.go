// Package session owns the lifecycle of the single device session used by
// netcommand.
//
// A session is either opened explicitly by a caller (Open), who then owns it
// until Close, or implicitly by Do for the duration of one operation. Do
// reuses whatever session is open and only tears down the sessions it opened
// itself, so one-shot operations can be interleaved with an explicitly held
// session without ever closing it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"netcommand/internal/domain"
	"netcommand/internal/driver"
)

// State is the observable session state
type State int

const (
	StateClosed State = iota
	StateOpenImplicit
	StateOpenExplicit
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpenImplicit:
		return "OPEN_IMPLICIT"
	case StateOpenExplicit:
		return "OPEN_EXPLICIT"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Manager mediates every access to the device session.
//
// The mutex guards device and external, and Do holds it for the whole wrapped
// operation so device access is serialized. Callbacks passed to Do must not
// call back into the Manager.
type Manager struct {
	cfg     domain.DriverConfig
	factory driver.Factory

	mu       sync.Mutex
	device   driver.Driver
	external bool // meaningful only while device != nil
}

// NewManager creates a Manager with no open session
func NewManager(cfg domain.DriverConfig, factory driver.Factory) *Manager {
	return &Manager{
		cfg:     cfg,
		factory: factory,
	}
}

// Config returns the configuration sessions are built from
func (m *Manager) Config() domain.DriverConfig {
	return m.cfg
}

// State reports whether a session is open and who owns it
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() State {
	switch {
	case m.device == nil:
		return StateClosed
	case m.external:
		return StateOpenExplicit
	default:
		return StateOpenImplicit
	}
}

// Open establishes an externally managed session. If a session is already
// open, Open does nothing and leaves its ownership unchanged.
func (m *Manager) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return nil
	}
	return m.openLocked(ctx, true)
}

// Close tears down the open session whoever opened it. Closing with no
// session open is a no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked(true)
}

// Do runs fn with the device session, opening a session for the duration of
// the call when none is open. Sessions opened by Do are always closed before
// it returns, including when fn fails or panics; sessions that were already
// open are left open.
func (m *Manager) Do(ctx context.Context, fn func(driver.Driver) (any, error)) (result any, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return fn(m.device)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.openLocked(ctx, false); err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := m.closeLocked(false); closeErr != nil {
			if err != nil {
				err = errors.Join(err, closeErr)
			} else {
				err = closeErr
			}
		}
	}()

	return fn(m.device)
}

// openLocked records a session only once the driver opened successfully
func (m *Manager) openLocked(ctx context.Context, external bool) error {
	dev, err := m.factory(m.cfg)
	if err != nil {
		return m.connErr("open", err)
	}
	if err := dev.Open(ctx); err != nil {
		return m.connErr("open", err)
	}

	m.device = dev
	m.external = external
	return nil
}

// closeLocked refuses to implicitly close an externally managed session.
// Otherwise the state is reset even when the driver fails to close.
func (m *Manager) closeLocked(external bool) error {
	if m.device == nil {
		return nil
	}
	if m.external && !external {
		return &domain.StateError{Msg: "cannot close an externally managed connection implicitly"}
	}

	dev := m.device
	m.device = nil
	m.external = false

	if err := dev.Close(); err != nil {
		return m.connErr("close", err)
	}
	return nil
}

func (m *Manager) connErr(op string, err error) error {
	return &domain.ConnectionError{
		Op:     op,
		Driver: m.cfg.Driver(),
		Host:   m.cfg.Hostname(),
		Err:    err,
	}
}
