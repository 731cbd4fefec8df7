package command

import (
	"context"
	"fmt"

	"netcommand/internal/driver"
)

// Kind selects how an operation reaches the device
type Kind int

const (
	// KindDevice runs one driver method under scoped session access
	KindDevice Kind = iota
	// KindOpen explicitly opens the session
	KindOpen
	// KindClose explicitly closes the session
	KindClose
)

// InvokeFunc overrides the generic driver.Call path for an operation
type InvokeFunc func(ctx context.Context, d driver.Driver, args driver.Args) (any, error)

// Operation is one entry of the command table
type Operation struct {
	// Name is the public command name
	Name string
	// Method is the driver method to call, defaults to Name
	Method      string
	Description string
	Kind        Kind
	Parameters  []Parameter
	// Rename maps public argument keys to driver parameter names. The
	// default table needs none; it serves tables for drivers whose
	// parameter names differ from the published schema.
	Rename map[string]string
	// Spread names a Dictionary argument whose entries are merged into
	// the driver call instead of being passed as one argument
	Spread string
	Invoke InvokeFunc
}

// DriverMethod returns the driver method the operation calls
func (op Operation) DriverMethod() string {
	if op.Method != "" {
		return op.Method
	}
	return op.Name
}

// driverArgs reshapes public arguments into the driver's parameter names.
// Declared arguments win over spread entries with the same name.
func (op Operation) driverArgs(args driver.Args) driver.Args {
	out := make(driver.Args, len(args))
	if op.Spread != "" {
		if extra, ok := args[op.Spread].(map[string]any); ok {
			for k, v := range extra {
				out[k] = v
			}
		}
	}
	for k, v := range args {
		if k == op.Spread {
			continue
		}
		if renamed, ok := op.Rename[k]; ok {
			k = renamed
		}
		out[k] = v
	}
	return out
}

// SessionManager provides explicit and scoped access to the device session
type SessionManager interface {
	Open(ctx context.Context) error
	Close() error
	Do(ctx context.Context, fn func(driver.Driver) (any, error)) (any, error)
}

// UnknownCommandError reports a command name missing from the table
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

// Facade exposes the driver's operations as named commands
type Facade struct {
	sessions SessionManager
	ops      map[string]Operation
	order    []string
}

// NewFacade creates a facade serving ops over the given session manager
func NewFacade(sessions SessionManager, ops []Operation) (*Facade, error) {
	f := &Facade{
		sessions: sessions,
		ops:      make(map[string]Operation, len(ops)),
	}
	for _, op := range ops {
		if op.Name == "" {
			return nil, fmt.Errorf("operation with empty name")
		}
		if _, exists := f.ops[op.Name]; exists {
			return nil, fmt.Errorf("operation %s declared twice", op.Name)
		}
		f.ops[op.Name] = op
		f.order = append(f.order, op.Name)
	}
	return f, nil
}

// Operations returns the command table in declaration order
func (f *Facade) Operations() []Operation {
	ops := make([]Operation, 0, len(f.order))
	for _, name := range f.order {
		ops = append(ops, f.ops[name])
	}
	return ops
}

// Lookup returns the operation registered under name
func (f *Facade) Lookup(name string) (Operation, bool) {
	op, ok := f.ops[name]
	return op, ok
}

// Invoke runs the named command with already validated arguments and
// returns the driver's result untouched. Driver errors are not wrapped.
func (f *Facade) Invoke(ctx context.Context, name string, args driver.Args) (any, error) {
	op, ok := f.ops[name]
	if !ok {
		return nil, &UnknownCommandError{Name: name}
	}

	switch op.Kind {
	case KindOpen:
		return nil, f.sessions.Open(ctx)
	case KindClose:
		return nil, f.sessions.Close()
	}

	forwarded := op.driverArgs(args)
	return f.sessions.Do(ctx, func(d driver.Driver) (any, error) {
		if op.Invoke != nil {
			return op.Invoke(ctx, d, forwarded)
		}
		return d.Call(ctx, op.DriverMethod(), forwarded)
	})
}
