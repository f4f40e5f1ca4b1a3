package xcache

import "time"

type Config struct {
	Enabled         bool          `conf:"enabled"          yaml:"enabled"          json:"enabled"`
	Expiration      time.Duration `conf:"expiration"       yaml:"expiration"       json:"expiration"`
	CleanupInterval time.Duration `conf:"cleanup_interval" yaml:"cleanup_interval" json:"cleanup_interval"`
}
