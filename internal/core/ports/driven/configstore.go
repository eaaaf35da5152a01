package driven

// ConfigStore provides read access to the service configuration file.
// Keys use dot notation matching the TOML tables (e.g. "google.client_id").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetFloat accepts both TOML floats and integers.
	// Returns 0 if key doesn't exist or isn't numeric.
	GetFloat(key string) float64

	// GetBool returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// GetStringSlice returns nil if key doesn't exist or isn't an array.
	GetStringSlice(key string) []string

	// Load re-reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
