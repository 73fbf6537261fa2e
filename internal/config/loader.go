package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all ffpgen settings.
const envPrefix = "FFPGEN"

// newViper builds a pre-configured Viper instance: YAML file type, FFPGEN_
// env prefix, automatic env binding, and a key replacer mapping "." → "_"
// so that nested keys like "redis.addr" resolve to "FFPGEN_REDIS_ADDR".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every configuration key to viper.  Without this,
// keys absent from the config file are invisible to AutomaticEnv and
// FFPGEN_* overrides would be silently dropped during Unmarshal.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.mode",
		"log.level", "log.format",
		"redis.addr", "redis.password", "redis.key_prefix",
		"artifacts.backend", "artifacts.local_root", "artifacts.endpoint",
		"artifacts.access_key", "artifacts.secret_key", "artifacts.bucket",
		"featurize.symmetry_weight_field", "featurize.tessellator_url",
		"featurize.featurizer_url",
	} {
		v.SetDefault(key, "")
	}
	for _, key := range []string{
		"server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
		"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
		"redis.default_ttl", "featurize.remote_timeout",
	} {
		v.SetDefault(key, "0s")
	}
	for _, key := range []string{
		"server.port", "redis.db", "redis.pool_size", "featurize.workers",
	} {
		v.SetDefault(key, 0)
	}
	for _, key := range []string{
		"redis.enabled", "artifacts.use_ssl", "featurize.use_symmetry_weights",
	} {
		v.SetDefault(key, false)
	}
	for _, key := range []string{
		"featurize.bond_tolerance", "featurize.voronoi_cutoff",
	} {
		v.SetDefault(key, 0.0)
	}
	for _, key := range []string{
		"log.output_paths", "featurize.volume_stats", "featurize.area_stats",
		"featurize.dist_stats",
	} {
		v.SetDefault(key, []string{})
	}
}

// Load reads the YAML file at configPath, merges FFPGEN_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from FFPGEN_* environment variables,
// with no config file required.  Preferred for containerized deployments.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk.  Intended for hot-reloading
// non-critical settings such as log level; callers apply only the safe
// subset at runtime.  If a change fails to parse or validate, onChange is
// not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers should have called Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on error.  For use in main() where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
