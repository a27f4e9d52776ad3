package driving

import "github.com/custodia-labs/docchat/internal/core/domain"

// SettingsService reads and updates application settings.
type SettingsService interface {
	// Get returns the effective settings: config file values over
	// environment fallbacks over defaults.
	Get() domain.AppSettings

	// Mode returns the persisted chat mode.
	Mode() domain.ChatMode

	// SetMode persists the chat mode.
	SetMode(mode domain.ChatMode) error

	// Set validates and persists a single dotted key, e.g. "retrieval.top_k".
	Set(key, value string) error

	// Keys returns every settable key in display order.
	Keys() []string

	// ConfigPath returns the location of the config file.
	ConfigPath() string
}
