package predict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofml/ffpgen/pkg/errors"
)

func TestDecodeLinearModel(t *testing.T) {
	m, err := DecodeModel(strings.NewReader(
		`{"type":"linear","coefficients":[2,-1],"intercept":0.5}`))
	require.NoError(t, err)

	y, err := m.Predict([]float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 2*3-1*4+0.5, y, 1e-12)
}

func TestLinearModelShapeMismatch(t *testing.T) {
	m, err := DecodeModel(strings.NewReader(
		`{"type":"linear","coefficients":[1,1],"intercept":0}`))
	require.NoError(t, err)

	_, err = m.Predict([]float64{1})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeModelEvalFailed))
}

func TestDecodeGradientBoostingModel(t *testing.T) {
	// One stump: x0 <= 0.5 predicts 1, otherwise 3.  Two boosting rounds
	// of the same stump with learning rate 0.1 around init 2.
	doc := `{
	  "type": "gradient_boosting",
	  "init": 2,
	  "learning_rate": 0.1,
	  "trees": [
	    {"children_left":[1,-1,-1],"children_right":[2,-1,-1],
	     "feature":[0,-2,-2],"threshold":[0.5,0,0],"value":[0,1,3]},
	    {"children_left":[1,-1,-1],"children_right":[2,-1,-1],
	     "feature":[0,-2,-2],"threshold":[0.5,0,0],"value":[0,1,3]}
	  ]
	}`
	m, err := DecodeModel(strings.NewReader(doc))
	require.NoError(t, err)

	low, err := m.Predict([]float64{0.2})
	require.NoError(t, err)
	assert.InDelta(t, 2+0.1*1+0.1*1, low, 1e-12)

	high, err := m.Predict([]float64{0.9})
	require.NoError(t, err)
	assert.InDelta(t, 2+0.1*3+0.1*3, high, 1e-12)

	// Left branch is taken on equality.
	edge, err := m.Predict([]float64{0.5})
	require.NoError(t, err)
	assert.InDelta(t, low, edge, 1e-12)
}

func TestDecodeModelBadArtifacts(t *testing.T) {
	cases := map[string]string{
		"not json":        `{`,
		"unknown type":    `{"type":"random_forest"}`,
		"no coefficients": `{"type":"linear","intercept":1}`,
		"no trees":        `{"type":"gradient_boosting","init":0}`,
		"ragged tree": `{"type":"gradient_boosting","trees":[
			{"children_left":[-1],"children_right":[],"feature":[],"threshold":[],"value":[1]}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeModel(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactCorrupt))
		})
	}
}

func TestTreeRejectsBadFeatureIndex(t *testing.T) {
	doc := `{"type":"gradient_boosting","init":0,"learning_rate":1,"trees":[
	  {"children_left":[1,-1,-1],"children_right":[2,-1,-1],
	   "feature":[5,-2,-2],"threshold":[0.5,0,0],"value":[0,1,3]}]}`
	m, err := DecodeModel(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = m.Predict([]float64{1, 2})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeModelEvalFailed))
}

func TestScalerTransform(t *testing.T) {
	s := &StandardScaler{Mean: []float64{1, 2}, Scale: []float64{2, 4}}
	require.NoError(t, s.validate())

	out, err := s.Transform([]float64{3, 10})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2}, out, 1e-12)

	_, err = s.Transform([]float64{1})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeScalerShapeError))
}

func TestScalerValidate(t *testing.T) {
	assert.Error(t, (&StandardScaler{}).validate())
	assert.Error(t, (&StandardScaler{Mean: []float64{1}, Scale: []float64{1, 2}}).validate())
	assert.Error(t, (&StandardScaler{Mean: []float64{1}, Scale: []float64{0}}).validate())
}
