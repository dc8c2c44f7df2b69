package rules

import (
	_ "embed"
	"fmt"
	"os"
	"sync"
)

//go:embed rules.yaml
var defaultRules []byte

// cache stores compiled tables keyed by source ("" for the embedded table)
var (
	cache   = make(map[string]*Table)
	cacheMu sync.RWMutex
)

// Default returns the compiled embedded rule table.
func Default() (*Table, error) {
	return load("", func() ([]byte, error) { return defaultRules, nil })
}

// MustDefault returns the embedded table, panicking if it does not compile.
// Use this where the table is required at initialization time.
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load default rules: %v", err))
	}
	return t
}

// LoadFile reads and compiles a rule table from disk. An empty path yields
// the embedded default.
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	return load(path, func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
		}
		return data, nil
	})
}

// DefaultYAML returns the embedded rule table source.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultRules))
	copy(out, defaultRules)
	return out
}

func load(key string, read func() ([]byte, error)) (*Table, error) {
	cacheMu.RLock()
	if t, exists := cache[key]; exists {
		cacheMu.RUnlock()
		return t, nil
	}
	cacheMu.RUnlock()

	data, err := read()
	if err != nil {
		return nil, err
	}

	t, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[key] = t
	cacheMu.Unlock()

	return t, nil
}

// ClearCache drops every compiled table. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]*Table)
	cacheMu.Unlock()
}
