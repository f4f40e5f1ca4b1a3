package log

// Config controls the process-wide logger.
type Config struct {
	// Name is attached to every entry as the "logger" field.
	Name string `conf:"name" yaml:"name" json:"name"`

	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `conf:"level" yaml:"level" json:"level"`

	// Format is "json" or "console". Defaults to console.
	Format string `conf:"format" yaml:"format" json:"format"`

	File FileConfig `conf:"file" yaml:"file" json:"file"`
}

// FileConfig enables rotated file output in addition to stderr.
type FileConfig struct {
	Enabled    bool   `conf:"enabled"     yaml:"enabled"     json:"enabled"`
	Path       string `conf:"path"        yaml:"path"        json:"path"`
	MaxSizeMB  int    `conf:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `conf:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `conf:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
}
