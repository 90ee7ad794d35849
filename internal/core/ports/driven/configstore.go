package driven

// ConfigStore holds settings under dotted keys ("chunking.workers").
// The typed getters return the zero value for a missing key or one that
// does not convert; numeric strings convert.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set stores value and persists it. On error the old value remains.
	Set(key string, value any) error

	Save() error

	// Load rereads the backing file, discarding unsaved values.
	Load() error

	// Path is the backing file, or ":memory:".
	Path() string
}
