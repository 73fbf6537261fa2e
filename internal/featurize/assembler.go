package featurize

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mofml/ffpgen/internal/domain/elements"
	"github.com/mofml/ffpgen/internal/domain/structure"
	"github.com/mofml/ffpgen/internal/featurize/bondgraph"
	"github.com/mofml/ffpgen/internal/featurize/shells"
	"github.com/mofml/ffpgen/internal/featurize/voronoi"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
	"github.com/mofml/ffpgen/pkg/errors"
)

// wrapSite attaches the site index to a per-site failure unless the error
// already carries one.
func wrapSite(err error, i int) error {
	if errors.SiteOf(err) >= 0 {
		return err
	}
	return errors.Wrap(err, errors.GetCode(err), "site descriptor failed").WithSite(i)
}

// Options parameterizes an Assembler.
type Options struct {
	// BondTolerance is the Å slack added to the covalent radius sum when
	// deciding bonds.
	BondTolerance float64

	// VoronoiCutoff is the neighbor search radius handed to the
	// tessellator, in Å.
	VoronoiCutoff float64

	// Voronoi configures the fingerprint block.
	Voronoi voronoi.Config

	// Workers bounds the concurrent per-site descriptor computations within
	// one structure.  Zero means GOMAXPROCS.
	Workers int
}

// Assembler produces the complete descriptor matrix of a structure: the
// externally computed blocks, the shell descriptors, and the Voronoi
// fingerprints, concatenated in a fixed column order.
type Assembler struct {
	bonds       *bondgraph.Builder
	shells      *shells.Aggregator
	voronoi     *voronoi.Aggregator
	tessellator voronoi.Tessellator
	external    SiteFeaturizer
	cutoff      float64
	workers     int
	logger      logging.Logger
}

// NewAssembler builds an Assembler.  The voronoi config is validated here;
// a bad weight field or statistic name fails construction.
func NewAssembler(
	table *elements.Table,
	tessellator voronoi.Tessellator,
	external SiteFeaturizer,
	opts Options,
	logger logging.Logger,
) (*Assembler, error) {
	voro, err := voronoi.NewAggregator(opts.Voronoi)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Assembler{
		bonds:       bondgraph.NewBuilder(table, opts.BondTolerance),
		shells:      shells.NewAggregator(table),
		voronoi:     voro,
		tessellator: tessellator,
		external:    external,
		cutoff:      opts.VoronoiCutoff,
		workers:     workers,
		logger:      logger,
	}, nil
}

// externalBlockOrder fixes the relative order of the delegated blocks in the
// assembled matrix.
var externalBlockOrder = []string{BlockAGNI, BlockCrystalNN, BlockOrderParams}

// validateBlocks checks that every delegated block is present with one row
// per site and rows as wide as its labels.  SiteFeaturizer is an open
// interface; a misshapen block must surface as an error, not an
// out-of-range panic in the per-site loop.
func validateBlocks(external map[string]Block, sites int) error {
	for _, name := range externalBlockOrder {
		block, ok := external[name]
		if !ok {
			return errors.Newf(errors.ErrCodeFeaturizerFailed,
				"featurizer block %q missing", name)
		}
		if len(block.Rows) != sites {
			return errors.Newf(errors.ErrCodeFeaturizerFailed,
				"featurizer block %q has %d rows, structure has %d sites",
				name, len(block.Rows), sites)
		}
		for i, row := range block.Rows {
			if len(row) != len(block.Labels) {
				return errors.Newf(errors.ErrCodeFeaturizerFailed,
					"featurizer block %q row %d has %d values, want %d",
					name, i, len(row), len(block.Labels)).WithSite(i)
			}
		}
	}
	return nil
}

// Assemble computes the descriptor matrix of s.  Column order is fixed:
// AGNI block, CrystalNN block, shell descriptors, order-parameter block,
// Voronoi fingerprint.  Any per-site failure aborts the whole structure;
// the returned error carries the offending site index where applicable.
func (a *Assembler) Assemble(ctx context.Context, s *structure.Structure) (*Matrix, error) {
	a.logger.Debug("assembling descriptor matrix",
		logging.String("structure", s.Name()),
		logging.Int("sites", s.Len()))

	graph, err := a.bonds.Build(s)
	if err != nil {
		return nil, err
	}

	// The two remote round-trips are independent of each other.
	var (
		external map[string]Block
		facets   [][]voronoi.FacetRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		external, err = a.external.FeaturizeSites(gctx, s, externalBlockOrder)
		return err
	})
	g.Go(func() error {
		var err error
		facets, err = a.tessellator.Tessellate(gctx, s, a.cutoff)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := validateBlocks(external, s.Len()); err != nil {
		return nil, err
	}
	if len(facets) != s.Len() {
		return nil, errors.Newf(errors.ErrCodeTessellationFailed,
			"tessellation returned %d sites, structure has %d", len(facets), s.Len())
	}

	rows := make([][]float64, s.Len())
	sites, sctx := errgroup.WithContext(ctx)
	sites.SetLimit(a.workers)
	for i := 0; i < s.Len(); i++ {
		i := i
		sites.Go(func() error {
			if err := sctx.Err(); err != nil {
				return err
			}
			shell, err := a.shells.Describe(s, graph, i)
			if err != nil {
				return err
			}
			voro, err := a.voronoi.Compute(facets[i])
			if err != nil {
				return wrapSite(err, i)
			}

			row := make([]float64, 0,
				len(external[BlockAGNI].Labels)+
					len(external[BlockCrystalNN].Labels)+
					shells.Width+
					len(external[BlockOrderParams].Labels)+
					a.voronoi.Width())
			row = append(row, external[BlockAGNI].Rows[i]...)
			row = append(row, external[BlockCrystalNN].Rows[i]...)
			row = append(row, shell...)
			row = append(row, external[BlockOrderParams].Rows[i]...)
			row = append(row, voro...)
			rows[i] = row
			return nil
		})
	}
	if err := sites.Wait(); err != nil {
		return nil, err
	}

	return &Matrix{Labels: a.labels(external), Rows: rows}, nil
}

// labels concatenates the column names in assembly order.  It mirrors the
// row construction in Assemble exactly.
func (a *Assembler) labels(external map[string]Block) []string {
	var out []string
	out = append(out, external[BlockAGNI].Labels...)
	out = append(out, external[BlockCrystalNN].Labels...)
	out = append(out, shells.Labels()...)
	out = append(out, external[BlockOrderParams].Labels...)
	out = append(out, a.voronoi.Labels()...)
	return out
}
