package driver

import (
	"context"
	"strings"
	"testing"

	"netcommand/internal/domain"
)

type nopDriver struct{}

func (nopDriver) Open(ctx context.Context) error { return nil }
func (nopDriver) Close() error                   { return nil }
func (nopDriver) IsAlive(ctx context.Context) (map[string]any, error) {
	return map[string]any{"is_alive": true}, nil
}
func (nopDriver) Call(ctx context.Context, method string, args Args) (any, error) {
	return nil, nil
}

func nopFactory(domain.DriverConfig) (Driver, error) { return nopDriver{}, nil }

func TestRegisterAndLookup(t *testing.T) {
	Register("registry-test", nopFactory)

	f, err := Lookup("registry-test")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	d, err := f(domain.DriverConfig{})
	if err != nil || d == nil {
		t.Fatalf("factory returned %v, %v", d, err)
	}

	found := false
	for _, name := range Supported() {
		if name == "registry-test" {
			found = true
		}
	}
	if !found {
		t.Errorf("Supported() = %v, missing registry-test", Supported())
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("does-not-exist")
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "does-not-exist") {
		t.Errorf("error should name the driver: %v", err)
	}
}

func TestRegisterPanics(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		factory Factory
	}{
		{"empty name", "", nopFactory},
		{"nil factory", "nil-factory", nil},
		{"duplicate", "registry-dup", nopFactory},
	}

	Register("registry-dup", nopFactory)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			Register(tt.driver, tt.factory)
		})
	}
}

func TestArgsString(t *testing.T) {
	args := Args{"config": "hostname r1", "filename": nil, "count": 5}
	if got := args.String("config"); got != "hostname r1" {
		t.Errorf("String(config) = %q", got)
	}
	if got := args.String("filename"); got != "" {
		t.Errorf("String(filename) = %q, want empty", got)
	}
	if got := args.String("count"); got != "" {
		t.Errorf("String(count) = %q, want empty", got)
	}
}
