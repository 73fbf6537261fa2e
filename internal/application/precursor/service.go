// Package precursor provides the application-level service for descriptor
// generation and force-field precursor prediction.  It is the interface
// between the HTTP/CLI handlers and the featurize and predict layers.
package precursor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mofml/ffpgen/internal/domain/structure"
	"github.com/mofml/ffpgen/internal/featurize"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/prometheus"
	"github.com/mofml/ffpgen/internal/predict"
)

// Assembler is the descriptor-matrix boundary the service depends on.
type Assembler interface {
	Assemble(ctx context.Context, s *structure.Structure) (*featurize.Matrix, error)
}

// Predictor is the prediction boundary the service depends on.
type Predictor interface {
	PredictSites(ctx context.Context, t predict.PrecursorType, m *featurize.Matrix) ([]float64, error)
}

// Service orchestrates featurization and prediction for one request.
type Service struct {
	assembler Assembler
	predictor Predictor
	metrics   *prometheus.Metrics
	logger    logging.Logger
}

// NewService builds the application service.  metrics may be nil in tests
// and tooling that does not export them.
func NewService(assembler Assembler, predictor Predictor, metrics *prometheus.Metrics, logger logging.Logger) *Service {
	return &Service{
		assembler: assembler,
		predictor: predictor,
		metrics:   metrics,
		logger:    logger,
	}
}

// Featurize assembles the descriptor matrix of s.
func (s *Service) Featurize(ctx context.Context, st *structure.Structure) (*featurize.Matrix, error) {
	requestID := uuid.NewString()
	log := s.logger.With(
		logging.String("request_id", requestID),
		logging.String("structure", st.Name()),
		logging.Int("sites", st.Len()))
	log.Info("featurize request started")

	start := time.Now()
	m, err := s.assembler.Assemble(ctx, st)
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.FeaturizeDuration.Observe(elapsed.Seconds())
		s.metrics.StructureSites.Observe(float64(st.Len()))
		s.metrics.FeaturizeTotal.WithLabelValues(statusOf(err)).Inc()
	}
	if err != nil {
		log.Error("featurize request failed", logging.Err(err), logging.Duration("elapsed", elapsed))
		return nil, err
	}
	log.Info("featurize request finished",
		logging.Int("columns", m.Width()),
		logging.Duration("elapsed", elapsed))
	return m, nil
}

// Predict parses the requested precursor type names, featurizes st once,
// predicts every type against the shared matrix, and attaches each result
// as a per-site property named after its type.  Unknown type names fail
// before any featurization work happens.
func (s *Service) Predict(ctx context.Context, st *structure.Structure, typeNames []string) (*structure.Structure, error) {
	types := make([]predict.PrecursorType, len(typeNames))
	for i, name := range typeNames {
		t, err := predict.Parse(name)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}

	m, err := s.Featurize(ctx, st)
	if err != nil {
		return nil, err
	}

	for _, t := range types {
		start := time.Now()
		values, err := s.predictor.PredictSites(ctx, t, m)
		if s.metrics != nil {
			s.metrics.PredictDuration.WithLabelValues(t.String()).Observe(time.Since(start).Seconds())
			s.metrics.PredictTotal.WithLabelValues(t.String(), statusOf(err)).Inc()
		}
		if err != nil {
			s.logger.Error("prediction failed",
				logging.String("structure", st.Name()),
				logging.String("precursor", t.String()),
				logging.Err(err))
			return nil, err
		}
		if err := st.SetSiteProperty(t.String(), values); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// PredictAll predicts every supported precursor type for st.
func (s *Service) PredictAll(ctx context.Context, st *structure.Structure) (*structure.Structure, error) {
	names := make([]string, 0, len(predict.All()))
	for _, t := range predict.All() {
		names = append(names, t.String())
	}
	return s.Predict(ctx, st, names)
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
