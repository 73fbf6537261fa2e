package structure

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofml/ffpgen/internal/domain/elements"
	"github.com/mofml/ffpgen/pkg/errors"
)

const methaneXYZ = `5
methane
C 0.00000 0.00000 0.00000
H 0.62900 0.62900 0.62900
H -0.62900 -0.62900 0.62900
H 0.62900 -0.62900 -0.62900
H -0.62900 0.62900 -0.62900
`

func TestReadXYZ(t *testing.T) {
	table := elements.MustDefault()

	s, err := ReadXYZ(strings.NewReader(methaneXYZ), table)
	require.NoError(t, err)

	assert.Equal(t, "methane", s.Name())
	assert.Equal(t, []int{6, 1, 1, 1, 1}, s.Species())
	// All four C-H distances are equal by symmetry.
	for i := 2; i <= 4; i++ {
		assert.InDelta(t, s.Distance(0, 1), s.Distance(0, i), 1e-9)
	}
}

func TestReadXYZErrors(t *testing.T) {
	table := elements.MustDefault()

	_, err := ReadXYZ(strings.NewReader(""), table)
	assert.Error(t, err)

	_, err = ReadXYZ(strings.NewReader("nope\n"), table)
	assert.Error(t, err)

	_, err = ReadXYZ(strings.NewReader("2\ntruncated\nC 0 0 0\n"), table)
	assert.Error(t, err)

	_, err = ReadXYZ(strings.NewReader("1\nbad symbol\nXx 0 0 0\n"), table)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownSpecies))

	_, err = ReadXYZ(strings.NewReader("1\nbad coord\nC a 0 0\n"), table)
	assert.Error(t, err)
}

func TestWriteXYZRoundTrip(t *testing.T) {
	table := elements.MustDefault()
	orig, err := ReadXYZ(strings.NewReader(methaneXYZ), table)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXYZ(&buf, orig, table))

	back, err := ReadXYZ(&buf, table)
	require.NoError(t, err)
	assert.Equal(t, orig.Species(), back.Species())
	assert.Equal(t, orig.Fingerprint(), back.Fingerprint())
}

func TestJSONRoundTripWithProperties(t *testing.T) {
	s, err := NewFinite("water", waterSites())
	require.NoError(t, err)
	require.NoError(t, s.SetSiteProperty("partial_charge", []float64{-0.8, 0.4, 0.4}))

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, s))

	back, err := DecodeJSON(&buf)
	require.NoError(t, err)

	assert.Equal(t, s.Name(), back.Name())
	assert.Equal(t, s.Species(), back.Species())
	got, err := back.SiteProperty("partial_charge")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-0.8, 0.4, 0.4}, got, 1e-12)
}

func TestDecodeJSONWithExplicitMatrix(t *testing.T) {
	doc := `{
	  "name": "periodic-pair",
	  "sites": [{"species": 30, "position": [0,0,0]}, {"species": 8, "position": [5,0,0]}],
	  "distance_matrix": [[0, 2.1], [2.1, 0]]
	}`

	s, err := DecodeJSON(strings.NewReader(doc))
	require.NoError(t, err)
	// The supplied matrix wins over raw Cartesian separation.
	assert.InDelta(t, 2.1, s.Distance(0, 1), 1e-12)
}

func TestDecodeJSONMalformed(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader("{"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))
}
