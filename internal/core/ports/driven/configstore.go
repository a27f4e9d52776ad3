package driven

// ConfigStore holds settings and the login session as flat dotted keys,
// e.g. "retrieval.top_k" or "session.user_id". Every write is persisted
// before it returns.
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns the value for key if it is a string, else "".
	GetString(key string) string

	// GetInt returns the value for key if it is an integer, else 0.
	GetInt(key string) int

	// GetFloat returns the value for key as a float64. Integers convert;
	// anything else is 0.
	GetFloat(key string) float64

	// Set stores value under key.
	Set(key string, value any) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Path returns the backing file's location.
	Path() string
}
