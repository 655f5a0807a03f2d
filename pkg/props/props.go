// Package props loads Java-style .properties configuration with
// base/override merging, the format extension bundles ship their
// configuration in.
package props

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
)

// ErrNotFound is returned when a required properties file is missing.
var ErrNotFound = errors.New("props: file not found")

// Properties is a merged, read-only key/value view with typed accessors.
type Properties struct {
	p *properties.Properties
}

// Load reads a base properties file and merges zero or more override
// files on top of it. Later files win on key conflicts. The base file
// must exist; override files are merged only when given.
func Load(base string, overrides ...string) (*Properties, error) {
	if _, err := os.Stat(base); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, base)
	}

	files := append([]string{base}, overrides...)
	p, err := properties.LoadFiles(files, properties.UTF8, false)
	if err != nil {
		return nil, fmt.Errorf("props: load %s: %w", base, err)
	}
	return &Properties{p: p}, nil
}

// New builds Properties from an in-memory map. Used by tests and by
// built-in extensions configured programmatically.
func New(kv map[string]string) *Properties {
	p := properties.NewProperties()
	for k, v := range kv {
		_, _, _ = p.Set(k, v)
	}
	return &Properties{p: p}
}

// String returns the value for key, or def when absent.
func (pr *Properties) String(key, def string) string {
	return pr.p.GetString(key, def)
}

// Int returns the integer value for key, or def when absent or malformed.
func (pr *Properties) Int(key string, def int) int {
	v, ok := pr.p.Get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Bool returns the boolean value for key, or def when absent or malformed.
func (pr *Properties) Bool(key string, def bool) bool {
	v, ok := pr.p.Get(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

// List returns the comma-separated list value for key, trimmed, or nil
// when the key is absent or empty.
func (pr *Properties) List(key string) []string {
	v, ok := pr.p.Get(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether key is present.
func (pr *Properties) Has(key string) bool {
	_, ok := pr.p.Get(key)
	return ok
}

// Keys returns all keys in file order.
func (pr *Properties) Keys() []string {
	return pr.p.Keys()
}
