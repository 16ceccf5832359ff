package types

import "errors"

// Config holds backend selection and parameters for attaching a RowSource.
type Config struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = BackendSQLite

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDataDirEmpty   = errors.New("data directory must not be empty")
)

// knownBackends lists the backends that Validate accepts, and whether each
// one needs a data directory.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendBolt:   true,
	BackendMemory: false,
}

// KnownBackends returns the accepted backend names in a stable order.
func KnownBackends() []string {
	return []string{BackendSQLite, BackendBolt, BackendMemory}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	needsDir, ok := knownBackends[c.Backend]
	if !ok {
		return ErrBackendUnknown
	}
	if needsDir && c.DataDir == "" {
		return ErrDataDirEmpty
	}
	return nil
}
