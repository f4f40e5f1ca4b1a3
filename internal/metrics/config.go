package metrics

import "time"

type Config struct {
	Enabled bool `conf:"enabled" yaml:"enabled" json:"enabled"`

	// Interval between metric exports.
	Interval time.Duration `conf:"interval" yaml:"interval" json:"interval"`
}
