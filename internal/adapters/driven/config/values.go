// Package config holds the flat settings map shared by the config stores.
package config

import (
	"maps"
	"sync"
)

// Values is a concurrency-safe map of dot-notation keys. It accepts both
// Go values and the types TOML decodes to (int64, []any).
type Values struct {
	mu sync.RWMutex
	m  map[string]any
}

// NewValues creates a map seeded with a copy of m.
func NewValues(m map[string]any) *Values {
	v := &Values{m: make(map[string]any, len(m))}
	maps.Copy(v.m, m)
	return v
}

// Get returns the raw value for key.
func (v *Values) Get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.m[key]
	return val, ok
}

// GetString returns key as a string.
func (v *Values) GetString(key string) string {
	val, _ := v.Get(key)
	s, _ := val.(string)
	return s
}

// GetInt returns key as an int.
func (v *Values) GetInt(key string) int {
	val, _ := v.Get(key)
	switch n := val.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	default:
		return 0
	}
}

// GetFloat returns key as a float64. Integers are converted.
func (v *Values) GetFloat(key string) float64 {
	val, _ := v.Get(key)
	switch n := val.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// GetStringSlice returns key as a string slice. Non-string elements of a
// decoded array are dropped.
func (v *Values) GetStringSlice(key string) []string {
	val, _ := v.Get(key)
	switch list := val.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Merged returns a copy of the current values with updates applied.
// The receiver is not modified.
func (v *Values) Merged(updates map[string]any) map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]any, len(v.m)+len(updates))
	maps.Copy(out, v.m)
	maps.Copy(out, updates)
	return out
}

// Replace swaps the whole map for m. m must not be modified afterwards.
func (v *Values) Replace(m map[string]any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m = m
}
