// Package conf loads the process configuration from visionhub.yml and
// VISIONHUB_ environment variables, with sensible defaults for a local
// single-model deployment.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/looplj/visionhub/internal/engine"
	"github.com/looplj/visionhub/internal/log"
	"github.com/looplj/visionhub/internal/metrics"
	"github.com/looplj/visionhub/internal/pkg/xcache"
	"github.com/looplj/visionhub/internal/server"
)

type Config struct {
	APIServer  server.Config  `conf:"server"      yaml:"server"      json:"server"`
	Engine     engine.Config  `conf:"engine"      yaml:"engine"      json:"engine"`
	ImageCache xcache.Config  `conf:"image_cache" yaml:"image_cache" json:"image_cache"`
	Log        log.Config     `conf:"log"         yaml:"log"         json:"log"`
	Metrics    metrics.Config `conf:"metrics"     yaml:"metrics"     json:"metrics"`
}

// Load reads visionhub.yml from the working directory or /etc/visionhub,
// overlays VISIONHUB_* environment variables and fills in defaults. A missing
// config file is fine; a malformed one is not.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigName("visionhub")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/visionhub")

	v.SetEnvPrefix("VISIONHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "conf"
	}); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8081)
	v.SetDefault("server.name", "visionhub")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.write_timeout", "10m")

	v.SetDefault("engine.model_path", "mlx-community/LFM2-VL-3B-4bit")
	v.SetDefault("engine.owner", "mlx-community")
	v.SetDefault("engine.command", []string{"python3", "-u", "scripts/mlx_vlm_worker.py"})
	v.SetDefault("engine.max_concurrency", 1)
	v.SetDefault("engine.load_timeout", "10m")

	v.SetDefault("image_cache.enabled", true)
	v.SetDefault("image_cache.expiration", "5m")
	v.SetDefault("image_cache.cleanup_interval", "10m")

	v.SetDefault("log.name", "visionhub")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.interval", "1m")
}
