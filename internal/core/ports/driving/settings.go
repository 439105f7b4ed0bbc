package driving

import "github.com/custodia-labs/proofcheck/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults per key.
	Get() (*domain.Settings, error)

	// Save persists settings after validation.
	Save(settings *domain.Settings) error

	// Set parses and stores a single dotted key.
	Set(key, value string) error

	// Value returns the current value of a dotted key in the form Set accepts.
	Value(key string) (string, error)

	// Keys returns every recognised configuration key.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// ConfigPath returns where settings are stored.
	ConfigPath() string
}
