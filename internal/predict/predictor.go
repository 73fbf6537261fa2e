package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/mofml/ffpgen/internal/featurize"
	"github.com/mofml/ffpgen/internal/infrastructure/artifacts"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
	"github.com/mofml/ffpgen/pkg/errors"
)

// EnsembleSize is the number of trained models per precursor type.  Every
// prediction is the mean of all of them.
const EnsembleSize = 5

// Ensemble holds the loaded prediction artifacts of one precursor type.
type Ensemble struct {
	scaler *StandardScaler
	models []Model
}

// Predict standardizes the rows and returns the ensemble-mean prediction
// per row.
func (e *Ensemble) Predict(rows [][]float64) ([]float64, error) {
	scaled, err := e.scaler.TransformAll(rows)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(scaled))
	for i, row := range scaled {
		sum := 0.0
		for _, m := range e.models {
			y, err := m.Predict(row)
			if err != nil {
				return nil, err
			}
			sum += y
		}
		out[i] = sum / float64(len(e.models))
	}
	return out, nil
}

// Loader fetches and memoizes ensembles from the artifact store.  Artifacts
// are immutable per deployment, so each type is loaded at most once.
type Loader struct {
	store  artifacts.Store
	logger logging.Logger

	mu     sync.Mutex
	loaded map[PrecursorType]*Ensemble
}

// NewLoader returns a Loader over the given artifact store.
func NewLoader(store artifacts.Store, logger logging.Logger) *Loader {
	return &Loader{
		store:  store,
		logger: logger,
		loaded: make(map[PrecursorType]*Ensemble),
	}
}

// Load returns the ensemble for t, fetching it on first use.  A missing
// model blob yields an EnsembleIncomplete error; a missing scaler is
// reported as-is.
func (l *Loader) Load(ctx context.Context, t PrecursorType) (*Ensemble, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.loaded[t]; ok {
		return e, nil
	}

	scaler, err := l.fetchScaler(ctx, t)
	if err != nil {
		return nil, err
	}
	models := make([]Model, EnsembleSize)
	for i := 0; i < EnsembleSize; i++ {
		m, err := l.fetchModel(ctx, t, i)
		if err != nil {
			if errors.IsCode(err, errors.ErrCodeArtifactNotFound) {
				return nil, errors.Newf(errors.ErrCodeEnsembleIncomplete,
					"ensemble for %s is missing model %d of %d", t, i, EnsembleSize).WithCause(err)
			}
			return nil, err
		}
		models[i] = m
	}

	e := &Ensemble{scaler: scaler, models: models}
	l.loaded[t] = e
	l.logger.Info("loaded prediction ensemble",
		logging.String("precursor", t.String()),
		logging.Int("models", EnsembleSize),
		logging.Int("columns", scaler.Width()))
	return e, nil
}

func (l *Loader) fetchScaler(ctx context.Context, t PrecursorType) (*StandardScaler, error) {
	rc, err := l.store.Fetch(ctx, fmt.Sprintf("%s/scaler.json", t))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var scaler StandardScaler
	if err := json.NewDecoder(rc).Decode(&scaler); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArtifactCorrupt, "failed to decode scaler artifact")
	}
	if err := scaler.validate(); err != nil {
		return nil, err
	}
	return &scaler, nil
}

func (l *Loader) fetchModel(ctx context.Context, t PrecursorType, i int) (Model, error) {
	rc, err := l.store.Fetch(ctx, fmt.Sprintf("%s/model_%d.json", t, i))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return DecodeModel(rc)
}

// Predictor produces per-site precursor values from descriptor matrices.
type Predictor struct {
	loader *Loader
}

// NewPredictor returns a Predictor over the given loader.
func NewPredictor(loader *Loader) *Predictor {
	return &Predictor{loader: loader}
}

// PredictSites runs the full prediction for one precursor type: scale,
// ensemble-average, then post-process.  The result has one value per matrix
// row, in site order.
func (p *Predictor) PredictSites(ctx context.Context, t PrecursorType, m *featurize.Matrix) ([]float64, error) {
	ensemble, err := p.loader.Load(ctx, t)
	if err != nil {
		return nil, err
	}
	values, err := ensemble.Predict(m.Rows)
	if err != nil {
		return nil, err
	}
	return postProcess(t, values), nil
}

// postProcess applies the per-type output transform.  Partial charges are
// mean-centered so each structure stays neutral overall; log-scaled targets
// are exponentiated back to physical units.
func postProcess(t PrecursorType, values []float64) []float64 {
	switch {
	case t == PartialCharge:
		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(len(values))
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = v - mean
		}
		return out
	case logScaled[t]:
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = math.Pow(10, v)
		}
		return out
	default:
		return values
	}
}
