package predict

import (
	"encoding/json"
	"io"

	"github.com/mofml/ffpgen/pkg/errors"
)

// Model evaluates one trained regressor on a standardized feature row.
type Model interface {
	Predict(features []float64) (float64, error)
}

// Model artifact type tags.
const (
	modelTypeLinear           = "linear"
	modelTypeGradientBoosting = "gradient_boosting"
)

// modelArtifact is the JSON envelope of an exported model.  The trained
// ensembles are exported from their original training environment into this
// portable form.
type modelArtifact struct {
	Type string `json:"type"`

	// Linear fields.
	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`

	// Gradient boosting fields.
	Init         float64        `json:"init,omitempty"`
	LearningRate float64        `json:"learning_rate,omitempty"`
	Trees        []treeArtifact `json:"trees,omitempty"`
}

// treeArtifact is one regression tree in flattened array form: node i's
// split is (Feature[i], Threshold[i]); leaves have ChildrenLeft[i] == -1 and
// their prediction in Value[i].
type treeArtifact struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

// DecodeModel reads and validates a model artifact.
func DecodeModel(r io.Reader) (Model, error) {
	var art modelArtifact
	if err := json.NewDecoder(r).Decode(&art); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArtifactCorrupt, "failed to decode model artifact")
	}
	switch art.Type {
	case modelTypeLinear:
		if len(art.Coefficients) == 0 {
			return nil, errors.New(errors.ErrCodeArtifactCorrupt, "linear model has no coefficients")
		}
		return &linearModel{coefficients: art.Coefficients, intercept: art.Intercept}, nil
	case modelTypeGradientBoosting:
		if len(art.Trees) == 0 {
			return nil, errors.New(errors.ErrCodeArtifactCorrupt, "gradient boosting model has no trees")
		}
		trees := make([]tree, len(art.Trees))
		for i, t := range art.Trees {
			n := len(t.ChildrenLeft)
			if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
				return nil, errors.Newf(errors.ErrCodeArtifactCorrupt,
					"tree %d has inconsistent node arrays", i)
			}
			trees[i] = tree(t)
		}
		return &gradientBoostingModel{
			init:         art.Init,
			learningRate: art.LearningRate,
			trees:        trees,
		}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeArtifactCorrupt, "unknown model type %q", art.Type)
	}
}

// linearModel is a dense linear regressor.
type linearModel struct {
	coefficients []float64
	intercept    float64
}

func (m *linearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.coefficients) {
		return 0, errors.Newf(errors.ErrCodeModelEvalFailed,
			"feature row has %d columns, model expects %d", len(features), len(m.coefficients))
	}
	y := m.intercept
	for i, c := range m.coefficients {
		y += c * features[i]
	}
	return y, nil
}

type tree struct {
	ChildrenLeft  []int
	ChildrenRight []int
	Feature       []int
	Threshold     []float64
	Value         []float64
}

// eval walks the tree from the root to a leaf.  Splits send x left when the
// feature value is less than or equal to the threshold.
func (t *tree) eval(features []float64) (float64, error) {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		f := t.Feature[node]
		if f < 0 || f >= len(features) {
			return 0, errors.Newf(errors.ErrCodeModelEvalFailed,
				"tree references feature %d of %d", f, len(features))
		}
		if features[f] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
		if node < 0 || node >= len(t.ChildrenLeft) {
			return 0, errors.Newf(errors.ErrCodeModelEvalFailed,
				"tree walked to invalid node %d", node)
		}
	}
	return t.Value[node], nil
}

// gradientBoostingModel is a boosted sum of regression trees around a base
// prediction.
type gradientBoostingModel struct {
	init         float64
	learningRate float64
	trees        []tree
}

func (m *gradientBoostingModel) Predict(features []float64) (float64, error) {
	y := m.init
	for i := range m.trees {
		v, err := m.trees[i].eval(features)
		if err != nil {
			return 0, err
		}
		y += m.learningRate * v
	}
	return y, nil
}
