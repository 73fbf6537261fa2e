package cli

import (
	"context"

	"github.com/mofml/ffpgen/internal/application/precursor"
	"github.com/mofml/ffpgen/internal/config"
	"github.com/mofml/ffpgen/internal/domain/elements"
	"github.com/mofml/ffpgen/internal/featurize"
	"github.com/mofml/ffpgen/internal/featurize/voronoi"
	"github.com/mofml/ffpgen/internal/infrastructure/artifacts"
	"github.com/mofml/ffpgen/internal/infrastructure/cache"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/prometheus"
	"github.com/mofml/ffpgen/internal/predict"
)

// runtime holds the fully wired pipeline and the resources it owns.
type runtime struct {
	cfg     *config.Config
	logger  logging.Logger
	service *precursor.Service
	metrics *prometheus.Metrics
	cache   cache.Cache
	store   artifacts.Store
}

// buildRuntime wires the whole pipeline from configuration: element table,
// remote clients, tessellation cache, descriptor assembler, artifact store,
// and the prediction ensemble loader.
func buildRuntime(ctx context.Context, cfg *config.Config, logger logging.Logger, withMetrics bool) (*runtime, error) {
	table, err := elements.Default()
	if err != nil {
		return nil, err
	}

	remote := featurize.NewRemoteClient(
		cfg.Featurize.FeaturizerURL,
		cfg.Featurize.TessellatorURL,
		cfg.Featurize.RemoteTimeout,
	)

	var tessCache cache.Cache
	if cfg.Redis.Enabled {
		tessCache, err = cache.NewRedisCache(ctx, &cfg.Redis, logger.Named("cache"))
		if err != nil {
			return nil, err
		}
	} else {
		tessCache = cache.NewMemoryCache(cfg.Redis.DefaultTTL)
	}
	tessellator := cache.NewCachingTessellator(remote, tessCache, cfg.Redis.DefaultTTL, logger.Named("tess"))

	assembler, err := featurize.NewAssembler(table, tessellator, remote, featurize.Options{
		BondTolerance: cfg.Featurize.BondTolerance,
		VoronoiCutoff: cfg.Featurize.VoronoiCutoff,
		Voronoi: voronoi.Config{
			UseSymmetryWeights: cfg.Featurize.UseSymmetryWeights,
			WeightField:        cfg.Featurize.SymmetryWeightField,
			VolumeStats:        cfg.Featurize.VolumeStats,
			AreaStats:          cfg.Featurize.AreaStats,
			DistStats:          cfg.Featurize.DistStats,
		},
		Workers: cfg.Featurize.Workers,
	}, logger.Named("featurize"))
	if err != nil {
		return nil, err
	}

	var store artifacts.Store
	switch cfg.Artifacts.Backend {
	case "minio":
		store, err = artifacts.NewMinIOStore(ctx, &cfg.Artifacts, logger.Named("artifacts"))
	default:
		store, err = artifacts.NewLocalStore(cfg.Artifacts.LocalRoot)
	}
	if err != nil {
		return nil, err
	}

	var metrics *prometheus.Metrics
	if withMetrics {
		metrics = prometheus.NewMetrics("ffpgen")
	}

	predictor := predict.NewPredictor(predict.NewLoader(store, logger.Named("predict")))
	service := precursor.NewService(assembler, predictor, metrics, logger.Named("service"))

	return &runtime{
		cfg:     cfg,
		logger:  logger,
		service: service,
		metrics: metrics,
		cache:   tessCache,
		store:   store,
	}, nil
}

// ready reports whether the runtime's dependencies answer.
func (r *runtime) ready() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Redis.DialTimeout)
	defer cancel()
	return r.cache.Ping(ctx)
}

// close releases the runtime's resources.
func (r *runtime) close() {
	if err := r.cache.Close(); err != nil {
		r.logger.Warn("failed to close cache", logging.Err(err))
	}
	if err := r.store.Close(); err != nil {
		r.logger.Warn("failed to close artifact store", logging.Err(err))
	}
}
