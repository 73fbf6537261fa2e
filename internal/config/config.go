// Package config defines all configuration structures for ffpgen.  No I/O or
// parsing logic lives here, only plain data types and validation; loading is
// in loader.go.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// RedisConfig holds connection parameters for the tessellation cache.
type RedisConfig struct {
	// Enabled selects the redis-backed tessellation cache; when false an
	// in-process cache is used instead.
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// ArtifactsConfig selects and parameterizes the model-artifact store that
// holds one scaler and five model blobs per precursor type.
type ArtifactsConfig struct {
	// Backend: "minio" | "local".
	Backend string `mapstructure:"backend"`

	// LocalRoot is the artifact directory for the "local" backend.
	LocalRoot string `mapstructure:"local_root"`

	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// FeaturizeConfig holds the descriptor-pipeline parameters.
type FeaturizeConfig struct {
	// BondTolerance is added to the covalent radius sum when deciding
	// whether two sites are bonded.
	BondTolerance float64 `mapstructure:"bond_tolerance"`

	// VoronoiCutoff is the neighbor search radius handed to the
	// tessellation provider.
	VoronoiCutoff float64 `mapstructure:"voronoi_cutoff"`

	// UseSymmetryWeights enables the weighted symmetry-index block.
	UseSymmetryWeights bool `mapstructure:"use_symmetry_weights"`

	// SymmetryWeightField: "solid_angle" | "area" | "volume" | "face_dist".
	SymmetryWeightField string `mapstructure:"symmetry_weight_field"`

	// VolumeStats, AreaStats, DistStats are the ordered statistic names
	// applied to facet volumes, areas, and doubled face distances.
	VolumeStats []string `mapstructure:"volume_stats"`
	AreaStats   []string `mapstructure:"area_stats"`
	DistStats   []string `mapstructure:"dist_stats"`

	// Workers bounds the per-site fan-out inside one structure.  Zero means
	// GOMAXPROCS.
	Workers int `mapstructure:"workers"`

	// TessellatorURL and FeaturizerURL point at the external geometry and
	// featurizer services.
	TessellatorURL string        `mapstructure:"tessellator_url"`
	FeaturizerURL  string        `mapstructure:"featurizer_url"`
	RemoteTimeout  time.Duration `mapstructure:"remote_timeout"`
}

// Config is the root configuration object.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Featurize FeaturizeConfig `mapstructure:"featurize"`
}

// Validate checks cross-field consistency.  Defaults are assumed to have
// been applied already (see ApplyDefaults).
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release, or test", c.Server.Mode)
	}
	if c.Featurize.BondTolerance < 0 {
		return fmt.Errorf("featurize.bond_tolerance must be non-negative, got %g", c.Featurize.BondTolerance)
	}
	if c.Featurize.VoronoiCutoff <= 0 {
		return fmt.Errorf("featurize.voronoi_cutoff must be positive, got %g", c.Featurize.VoronoiCutoff)
	}
	switch c.Featurize.SymmetryWeightField {
	case "solid_angle", "area", "volume", "face_dist":
	default:
		return fmt.Errorf("featurize.symmetry_weight_field %q unrecognized", c.Featurize.SymmetryWeightField)
	}
	switch c.Artifacts.Backend {
	case "minio":
		if c.Artifacts.Endpoint == "" {
			return fmt.Errorf("artifacts.endpoint required for the minio backend")
		}
		if c.Artifacts.Bucket == "" {
			return fmt.Errorf("artifacts.bucket required for the minio backend")
		}
	case "local":
		if c.Artifacts.LocalRoot == "" {
			return fmt.Errorf("artifacts.local_root required for the local backend")
		}
	default:
		return fmt.Errorf("artifacts.backend %q must be minio or local", c.Artifacts.Backend)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr required when redis is enabled")
	}
	return nil
}
