package driving

import "github.com/custodia-labs/curricula/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns defaults overlaid with the config file and environment.
	Get() (*domain.AppSettings, error)

	// Validate checks settings against their constraints.
	Validate(settings *domain.AppSettings) error

	// Set writes a single dotted key after validating the resulting settings.
	Set(key, value string) error

	// Keys lists the supported dotted keys.
	Keys() []string
}
