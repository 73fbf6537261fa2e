package predict

import (
	"github.com/mofml/ffpgen/pkg/errors"
)

// StandardScaler standardizes feature rows to the training distribution:
// (x - mean) / scale, column-wise.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// validate checks internal consistency of a decoded scaler artifact.
func (s *StandardScaler) validate() error {
	if len(s.Mean) == 0 {
		return errors.New(errors.ErrCodeArtifactCorrupt, "scaler has no columns")
	}
	if len(s.Mean) != len(s.Scale) {
		return errors.Newf(errors.ErrCodeArtifactCorrupt,
			"scaler mean has %d columns but scale has %d", len(s.Mean), len(s.Scale))
	}
	for i, v := range s.Scale {
		if v == 0 {
			return errors.Newf(errors.ErrCodeArtifactCorrupt,
				"scaler column %d has zero scale", i)
		}
	}
	return nil
}

// Width returns the number of feature columns the scaler expects.
func (s *StandardScaler) Width() int { return len(s.Mean) }

// Transform standardizes one feature row.
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, errors.Newf(errors.ErrCodeScalerShapeError,
			"feature row has %d columns, scaler expects %d", len(row), len(s.Mean))
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// TransformAll standardizes every row.
func (s *StandardScaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}
