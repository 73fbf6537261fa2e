package structure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofml/ffpgen/pkg/errors"
)

func waterSites() []Site {
	// H2O with O at the origin.
	return []Site{
		{Species: 8, Position: [3]float64{0, 0, 0}},
		{Species: 1, Position: [3]float64{0.9584, 0, 0}},
		{Species: 1, Position: [3]float64{-0.2396, 0.9279, 0}},
	}
}

func TestNewFiniteComputesDistances(t *testing.T) {
	s, err := NewFinite("water", waterSites())
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{8, 1, 1}, s.Species())

	dm := s.DistanceMatrix()
	assert.InDelta(t, 0.9584, dm[0][1], 1e-9)
	assert.InDelta(t, dm[1][2], dm[2][1], 1e-12)
	for i := 0; i < 3; i++ {
		assert.Zero(t, dm[i][i])
		for j := 0; j < 3; j++ {
			assert.Equal(t, dm[i][j], dm[j][i])
		}
	}
}

func TestNewFiniteRejectsEmpty(t *testing.T) {
	_, err := NewFinite("empty", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureInvalid))
}

func TestNewWithDistanceMatrixValidation(t *testing.T) {
	sites := []Site{{Species: 6}, {Species: 6}}

	_, err := NewWithDistanceMatrix("bad-shape", sites, [][]float64{{0, 1}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureInvalid))

	_, err = NewWithDistanceMatrix("bad-diag", sites, [][]float64{{0.5, 1}, {1, 0}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureInvalid))

	_, err = NewWithDistanceMatrix("asymmetric", sites, [][]float64{{0, 1}, {2, 0}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureInvalid))

	s, err := NewWithDistanceMatrix("ok", sites, [][]float64{{0, 1.54}, {1.54, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 1.54, s.Distance(0, 1), 1e-12)
}

func TestDistanceMatrixIsCopied(t *testing.T) {
	sites := []Site{{Species: 6}, {Species: 6}}
	dm := [][]float64{{0, 1.54}, {1.54, 0}}
	s, err := NewWithDistanceMatrix("copy", sites, dm)
	require.NoError(t, err)

	dm[0][1] = 99
	assert.InDelta(t, 1.54, s.Distance(0, 1), 1e-12)
}

func TestSiteProperties(t *testing.T) {
	s, err := NewFinite("water", waterSites())
	require.NoError(t, err)

	err = s.SetSiteProperty("partial_charge", []float64{-0.8, 0.4, 0.4})
	require.NoError(t, err)

	got, err := s.SiteProperty("partial_charge")
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.8, 0.4, 0.4}, got)
	assert.Equal(t, []string{"partial_charge"}, s.PropertyNames())

	// Length mismatch is rejected.
	err = s.SetSiteProperty("bad", []float64{1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureInvalid))

	// Missing property reports the offending site.
	_, err = s.SiteProperty("absent")
	require.Error(t, err)
	assert.Equal(t, 0, errors.SiteOf(err))
}

func TestFingerprintDeterministic(t *testing.T) {
	a, err := NewFinite("a", waterSites())
	require.NoError(t, err)
	b, err := NewFinite("b-different-name", waterSites())
	require.NoError(t, err)

	// Identity is geometric: name and properties do not matter.
	require.NoError(t, b.SetSiteProperty("partial_charge", []float64{0, 0, 0}))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	moved := waterSites()
	moved[1].Position[0] += 0.01
	c, err := NewFinite("c", moved)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestSitesReturnsCopy(t *testing.T) {
	s, err := NewFinite("water", waterSites())
	require.NoError(t, err)
	require.NoError(t, s.SetSiteProperty("q", []float64{1, 2, 3}))

	sites := s.Sites()
	sites[0].Species = 99
	sites[0].Properties["q"] = math.NaN()

	assert.Equal(t, 8, s.Site(0).Species)
	assert.Equal(t, 1.0, s.Site(0).Properties["q"])
}
