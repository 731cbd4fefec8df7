package mock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"netcommand/internal/codec"
)

var fixtureExtensions = []string{".json", ".yaml", ".yml"}

// FixtureError is a device exception replayed from a fixture of the form
// {"exception": "CommitError", "message": "..."}
type FixtureError struct {
	Exception string
	Message   string
}

func (e *FixtureError) Error() string {
	return e.Exception + ": " + e.Message
}

// Class reports the replayed exception name
func (e *FixtureError) Class() string {
	return e.Exception
}

// loadFixture returns the recorded answer for the n-th call of method. A
// numbered fixture (get_facts.2.json) wins over the unnumbered one.
func loadFixture(dir, method string, n int) (any, bool, error) {
	if dir == "" {
		return nil, false, nil
	}

	for _, base := range []string{method + "." + strconv.Itoa(n), method} {
		for _, ext := range fixtureExtensions {
			path := filepath.Join(dir, base+ext)
			v, err := readFixture(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, false, err
			}
			if fe := asFixtureError(v); fe != nil {
				return nil, true, fe
			}
			return v, true, nil
		}
	}
	return nil, false, nil
}

func readFixture(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, ok := codec.ForExtension(path)
	if !ok {
		return nil, fmt.Errorf("mock fixture %s: unsupported format", path)
	}

	var v any
	if err := c.Decode(f, &v); err != nil {
		return nil, fmt.Errorf("mock fixture %s: %w", path, err)
	}
	return v, nil
}

func asFixtureError(v any) *FixtureError {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	exception, ok := m["exception"].(string)
	if !ok || exception == "" {
		return nil
	}
	message, _ := m["message"].(string)
	return &FixtureError{Exception: exception, Message: message}
}
