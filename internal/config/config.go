// Package config loads the propagation server configuration from defaults,
// an optional YAML file, ILM_* environment variables and explicit overrides,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/signalsfoundry/lunar-propagation/internal/observability"
)

// FileName is the configuration file searched for when no path is given.
const FileName = "ilm-server"

// EnvPrefix prefixes every environment variable, e.g. ILM_LISTEN_ADDRESS or
// ILM_TRACING_ENABLED.
const EnvPrefix = "ILM"

// Log holds logger settings.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the full server configuration.
type Config struct {
	ListenAddress  string `mapstructure:"listen_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	// CatalogPath names a YAML preset catalog loaded on top of the
	// built-in presets. Empty means built-ins only.
	CatalogPath string                      `mapstructure:"catalog_path"`
	Log         Log                         `mapstructure:"log"`
	Tracing     observability.TracingConfig `mapstructure:"tracing"`
}

// Load builds the configuration. path may be empty, in which case
// ilm-server.yaml is looked up in the working directory and /etc/ilm and
// skipped when absent. overrides are applied last, keyed like the file
// (e.g. "tracing.enabled").
func Load(path string, overrides map[string]any) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/ilm")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	for key, val := range overrides {
		v.Set(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_address", ":50051")
	v.SetDefault("metrics_address", ":9090")
	v.SetDefault("catalog_path", "")
	v.SetDefault("log.level", os.Getenv("LOG_LEVEL"))
	v.SetDefault("log.format", os.Getenv("LOG_FORMAT"))

	tracing := observability.TracingConfigFromEnv()
	v.SetDefault("tracing.enabled", tracing.Enabled)
	v.SetDefault("tracing.service_name", tracing.ServiceName)
	v.SetDefault("tracing.exporter", tracing.Exporter)
	v.SetDefault("tracing.endpoint", tracing.Endpoint)
	v.SetDefault("tracing.sample_ratio", tracing.SampleRatio)
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddress) == "" {
		return errors.New("config: listen_address is required")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("config: tracing.sample_ratio %v not in [0, 1]", c.Tracing.SampleRatio)
	}
	return nil
}
