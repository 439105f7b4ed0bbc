package driven

// ConfigStore holds settings as flat dot-notation keys ("diff.threshold").
// Typed getters return the zero value when a key is missing or holds a
// different type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string

	// GetInt accepts any integer type the backing format decodes to.
	GetInt(key string) int

	// GetFloat also accepts integers, so "ratio = 1" reads as 1.0.
	GetFloat(key string) float64

	GetStringSlice(key string) []string

	// Update merges values and persists them in one write. On error the
	// stored values are unchanged.
	Update(values map[string]any) error

	// Path returns where the settings live, for display.
	Path() string
}
