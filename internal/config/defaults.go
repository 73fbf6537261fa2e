package config

import "time"

// Pipeline defaults.  The bond tolerance and tessellation cutoff match the
// values the prediction models were trained with; changing them invalidates
// the downstream ensembles.
const (
	DefaultBondTolerance = 0.5
	DefaultVoronoiCutoff = 6.5
)

// ApplyDefaults fills any unset field of cfg with its default value.  It is
// idempotent and never overwrites an explicitly set value.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		// Feature matrices for large frameworks take a while to assemble.
		cfg.Server.WriteTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}

	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 24 * time.Hour
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "ffpgen:"
	}

	if cfg.Artifacts.Backend == "" {
		cfg.Artifacts.Backend = "local"
	}
	if cfg.Artifacts.Backend == "local" && cfg.Artifacts.LocalRoot == "" {
		cfg.Artifacts.LocalRoot = "artifacts"
	}
	if cfg.Artifacts.Bucket == "" {
		cfg.Artifacts.Bucket = "ffpgen-models"
	}

	if cfg.Featurize.BondTolerance == 0 {
		cfg.Featurize.BondTolerance = DefaultBondTolerance
	}
	if cfg.Featurize.VoronoiCutoff == 0 {
		cfg.Featurize.VoronoiCutoff = DefaultVoronoiCutoff
	}
	if cfg.Featurize.SymmetryWeightField == "" {
		cfg.Featurize.SymmetryWeightField = "solid_angle"
	}
	if len(cfg.Featurize.VolumeStats) == 0 {
		cfg.Featurize.VolumeStats = []string{"mean", "std_dev", "minimum", "maximum"}
	}
	if len(cfg.Featurize.AreaStats) == 0 {
		cfg.Featurize.AreaStats = []string{"mean", "std_dev", "minimum", "maximum"}
	}
	if len(cfg.Featurize.DistStats) == 0 {
		cfg.Featurize.DistStats = []string{"mean", "std_dev", "minimum", "maximum"}
	}
	if cfg.Featurize.RemoteTimeout == 0 {
		cfg.Featurize.RemoteTimeout = 5 * time.Minute
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
// Used by entry points when no config file is present.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
