// Package values holds configuration under dotted keys ("chunking.workers")
// and converts on read, since the same key may arrive as a TOML integer,
// a Go int or a string typed on the command line.
package values

import (
	"maps"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Map is a concurrency-safe set of dotted keys. The zero value is not
// usable; call New.
type Map struct {
	mu sync.RWMutex
	m  map[string]any
}

// New returns an empty Map.
func New() *Map {
	return &Map{m: map[string]any{}}
}

// Get returns the raw value stored under key.
func (v *Map) Get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.m[key]
	return val, ok
}

// Set stores value under key.
func (v *Map) Set(key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m[key] = value
}

// Snapshot returns a copy of every key.
func (v *Map) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.m)
}

// Replace swaps in m as the full contents. A nil m empties the map.
func (v *Map) Replace(m map[string]any) {
	if m == nil {
		m = map[string]any{}
	}
	v.mu.Lock()
	v.m = m
	v.mu.Unlock()
}

// GetString returns "" unless the value is a string.
func (v *Map) GetString(key string) string {
	val, _ := v.Get(key)
	s, _ := val.(string)
	return s
}

// GetInt returns 0 unless the value is a whole number or a string
// holding one.
func (v *Map) GetInt(key string) int {
	val, _ := v.Get(key)
	n, _ := Int(val)
	return n
}

// GetFloat returns 0 unless the value is numeric or a numeric string.
func (v *Map) GetFloat(key string) float64 {
	val, _ := v.Get(key)
	f, _ := Float(val)
	return f
}

// GetBool returns false unless the value is true or a string that
// strconv.ParseBool reads as true.
func (v *Map) GetBool(key string) bool {
	val, _ := v.Get(key)
	b, _ := Bool(val)
	return b
}

// Int converts val to an int. Floats must be whole.
func Int(val any) (int, bool) {
	switch x := val.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}

// Float converts val to a float64.
func Float(val any) (float64, bool) {
	switch x := val.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// Bool converts val to a bool.
func Bool(val any) (bool, bool) {
	switch x := val.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	}
	return false, false
}
