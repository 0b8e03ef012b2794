// Package config defines process configuration and how it is loaded.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load(ctx) layers an optional YAML file and REGROW_ env vars on top.
//   - Validation failures wrap ErrInvalidConfig.
package config

// Store drivers understood by the repository adapter.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the loopback HTTP listen address.
	Addr string `koanf:"addr"`

	// StoreDriver selects the persistence backend: sqlite or memory.
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the SQLite database file. Empty means ~/.regrow.db.
	StorePath string `koanf:"store_path"`

	// StateKey is the key the protocol state blob is stored under.
	StateKey string `koanf:"state_key"`

	// Timezone is an IANA zone name used for calendar days. Empty means
	// the system local zone.
	Timezone string `koanf:"timezone"`

	// SaveQueueSize bounds pending snapshots in the write-back queue.
	SaveQueueSize int `koanf:"save_queue_size"`

	// DedupeSize sets how many recent request ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MetricsEnabled toggles Prometheus collection.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           "127.0.0.1:9084",
		StoreDriver:    DriverSQLite,
		StateKey:       "hairRegrowthData",
		SaveQueueSize:  16,
		DedupeSize:     1024,
		MetricsEnabled: true,
	}
}
