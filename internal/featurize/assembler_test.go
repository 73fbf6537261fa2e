package featurize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofml/ffpgen/internal/config"
	"github.com/mofml/ffpgen/internal/domain/elements"
	"github.com/mofml/ffpgen/internal/domain/structure"
	"github.com/mofml/ffpgen/internal/featurize/shells"
	"github.com/mofml/ffpgen/internal/featurize/voronoi"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
	"github.com/mofml/ffpgen/pkg/errors"
)

// fakeFeaturizer returns deterministic blocks whose values encode the site
// index, so column ordering is verifiable.
type fakeFeaturizer struct {
	err error
}

func (f *fakeFeaturizer) FeaturizeSites(_ context.Context, s *structure.Structure, blocks []string) (map[string]Block, error) {
	if f.err != nil {
		return nil, f.err
	}
	widths := map[string]int{BlockAGNI: 2, BlockCrystalNN: 3, BlockOrderParams: 1}
	out := make(map[string]Block, len(blocks))
	for _, name := range blocks {
		w := widths[name]
		block := Block{Labels: make([]string, w), Rows: make([][]float64, s.Len())}
		for c := 0; c < w; c++ {
			block.Labels[c] = name + "_col"
		}
		for i := range block.Rows {
			row := make([]float64, w)
			for c := range row {
				row[c] = float64(i)*100 + float64(c)
			}
			block.Rows[i] = row
		}
		out[name] = block
	}
	return out, nil
}

type fakeTessellator struct {
	err    error
	cutoff float64
	facets func(site int) []voronoi.FacetRecord
}

func (f *fakeTessellator) Tessellate(_ context.Context, s *structure.Structure, cutoff float64) ([][]voronoi.FacetRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.cutoff = cutoff
	out := make([][]voronoi.FacetRecord, s.Len())
	for i := range out {
		out[i] = f.facets(i)
	}
	return out, nil
}

func squareFacets(n int) []voronoi.FacetRecord {
	out := make([]voronoi.FacetRecord, n)
	for i := range out {
		out[i] = voronoi.FacetRecord{Verts: 4, SolidAngle: 1, Area: 1, Volume: 1, FaceDist: 0.5}
	}
	return out
}

// chainStructure is an O-C-C-H chain with consecutive sites 1.4 Å apart, so
// every site has non-empty first and second spheres.
func chainStructure(t *testing.T) *structure.Structure {
	t.Helper()
	sites := []structure.Site{{Species: 8}, {Species: 6}, {Species: 6}, {Species: 1}}
	dist := make([][]float64, 4)
	for i := range dist {
		dist[i] = make([]float64, 4)
		for j := range dist[i] {
			d := i - j
			if d < 0 {
				d = -d
			}
			dist[i][j] = 1.4 * float64(d)
		}
	}
	s, err := structure.NewWithDistanceMatrix("chain", sites, dist)
	require.NoError(t, err)
	return s
}

func testOptions() Options {
	return Options{
		BondTolerance: config.DefaultBondTolerance,
		VoronoiCutoff: config.DefaultVoronoiCutoff,
		Voronoi: voronoi.Config{
			VolumeStats: []string{voronoi.StatMean},
			AreaStats:   []string{voronoi.StatMean},
			DistStats:   []string{voronoi.StatMean},
		},
		Workers: 2,
	}
}

func newTestAssembler(t *testing.T, tess voronoi.Tessellator, ext SiteFeaturizer) *Assembler {
	t.Helper()
	a, err := NewAssembler(elements.MustDefault(), tess, ext, testOptions(), logging.NewNopLogger())
	require.NoError(t, err)
	return a
}

func TestAssembleColumnOrder(t *testing.T) {
	tess := &fakeTessellator{facets: func(int) []voronoi.FacetRecord { return squareFacets(12) }}
	a := newTestAssembler(t, tess, &fakeFeaturizer{})

	s := chainStructure(t)
	m, err := a.Assemble(context.Background(), s)
	require.NoError(t, err)

	require.Len(t, m.Rows, 4)
	voroWidth := 8 + 8 + 2 + 3 // hist, symmetry, sums, one stat per list
	wantWidth := 2 + 3 + shells.Width + 1 + voroWidth
	assert.Equal(t, wantWidth, m.Width())
	for _, row := range m.Rows {
		assert.Len(t, row, wantWidth)
	}

	// Site 2's row: AGNI then CrystalNN then shells then OP then Voronoi.
	row := m.Rows[2]
	assert.Equal(t, []float64{200, 201}, row[:2])
	assert.Equal(t, []float64{200, 201, 202}, row[2:5])
	assert.InDelta(t, 11.260, row[5], 1e-9, "shell block starts with the site's own IE")
	assert.Equal(t, 200.0, row[5+shells.Width])
	assert.Zero(t, row[6+shells.Width], "no three-vertex facets")
	assert.InDelta(t, 12.0, row[7+shells.Width], 1e-12, "twelve square facets land in the four-vertex bin")

	// Labels mirror the row layout.
	assert.Equal(t, "agni_col", m.Labels[0])
	assert.Equal(t, "crystal_nn_col", m.Labels[2])
	assert.Equal(t, "ionization_energy", m.Labels[5])
	assert.Equal(t, "order_parameters_col", m.Labels[5+shells.Width])
	assert.Equal(t, "Voro_index_3", m.Labels[6+shells.Width])

	assert.Equal(t, config.DefaultVoronoiCutoff, tess.cutoff)
}

func TestAssembleDeterministicUnderConcurrency(t *testing.T) {
	tess := &fakeTessellator{facets: func(int) []voronoi.FacetRecord { return squareFacets(12) }}
	a := newTestAssembler(t, tess, &fakeFeaturizer{})
	s := chainStructure(t)

	first, err := a.Assemble(context.Background(), s)
	require.NoError(t, err)
	for k := 0; k < 5; k++ {
		m, err := a.Assemble(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, first.Labels, m.Labels)
		assert.Equal(t, first.Rows, m.Rows)
	}
}

func TestAssembleTessellatorErrorAborts(t *testing.T) {
	tessErr := errors.New(errors.ErrCodeTessellationFailed, "geometry backend down")
	a := newTestAssembler(t, &fakeTessellator{err: tessErr}, &fakeFeaturizer{})

	_, err := a.Assemble(context.Background(), chainStructure(t))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTessellationFailed))
}

func TestAssembleFeaturizerErrorAborts(t *testing.T) {
	extErr := errors.New(errors.ErrCodeFeaturizerFailed, "block service down")
	tess := &fakeTessellator{facets: func(int) []voronoi.FacetRecord { return squareFacets(12) }}
	a := newTestAssembler(t, tess, &fakeFeaturizer{err: extErr})

	_, err := a.Assemble(context.Background(), chainStructure(t))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFeaturizerFailed))
}

// misshapenFeaturizer produces well-formed blocks and then applies mutate,
// standing in for a SiteFeaturizer implementation that violates the block
// shape contract.
type misshapenFeaturizer struct {
	inner  fakeFeaturizer
	mutate func(map[string]Block)
}

func (f *misshapenFeaturizer) FeaturizeSites(ctx context.Context, s *structure.Structure, blocks []string) (map[string]Block, error) {
	out, err := f.inner.FeaturizeSites(ctx, s, blocks)
	if err != nil {
		return nil, err
	}
	f.mutate(out)
	return out, nil
}

func TestAssembleRejectsMisshapenBlocks(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]Block)
	}{
		{"missing block", func(out map[string]Block) {
			delete(out, BlockCrystalNN)
		}},
		{"wrong row count", func(out map[string]Block) {
			b := out[BlockAGNI]
			b.Rows = b.Rows[:len(b.Rows)-1]
			out[BlockAGNI] = b
		}},
		{"ragged row", func(out map[string]Block) {
			b := out[BlockOrderParams]
			b.Rows[1] = append(b.Rows[1], 0)
			out[BlockOrderParams] = b
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tess := &fakeTessellator{facets: func(int) []voronoi.FacetRecord { return squareFacets(12) }}
			a := newTestAssembler(t, tess, &misshapenFeaturizer{mutate: tc.mutate})

			_, err := a.Assemble(context.Background(), chainStructure(t))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeFeaturizerFailed))
		})
	}
}

// shortTessellator drops the last site's facet records.
type shortTessellator struct{}

func (shortTessellator) Tessellate(_ context.Context, s *structure.Structure, _ float64) ([][]voronoi.FacetRecord, error) {
	out := make([][]voronoi.FacetRecord, s.Len()-1)
	for i := range out {
		out[i] = squareFacets(12)
	}
	return out, nil
}

func TestAssembleRejectsShortTessellation(t *testing.T) {
	a := newTestAssembler(t, shortTessellator{}, &fakeFeaturizer{})

	_, err := a.Assemble(context.Background(), chainStructure(t))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTessellationFailed))
}

func TestAssembleDegenerateSiteCarriesIndex(t *testing.T) {
	tess := &fakeTessellator{facets: func(site int) []voronoi.FacetRecord {
		if site == 3 {
			return nil
		}
		return squareFacets(12)
	}}
	a := newTestAssembler(t, tess, &fakeFeaturizer{})

	_, err := a.Assemble(context.Background(), chainStructure(t))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDegenerateTessellation))
	assert.Equal(t, 3, errors.SiteOf(err))
}

func TestAssembleEmptyShellCarriesIndex(t *testing.T) {
	// A diatomic has no second coordination sphere anywhere.
	s, err := structure.NewFinite("co", []structure.Site{
		{Species: 6, Position: [3]float64{0, 0, 0}},
		{Species: 8, Position: [3]float64{1.2, 0, 0}},
	})
	require.NoError(t, err)

	tess := &fakeTessellator{facets: func(int) []voronoi.FacetRecord { return squareFacets(12) }}
	a := newTestAssembler(t, tess, &fakeFeaturizer{})

	_, err = a.Assemble(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyShell))
	assert.GreaterOrEqual(t, errors.SiteOf(err), 0)
}
