package voronoi

import (
	"fmt"

	"github.com/mofml/ffpgen/pkg/errors"
)

// histBins is the number of coordination histogram bins; bin b counts facets
// with b+minVerts vertices.
const (
	histBins = 8
	minVerts = 3
	maxVerts = 10
)

// Config selects the optional weighted symmetry indices and the summary
// statistics computed over the facet lists.
type Config struct {
	// UseSymmetryWeights enables the weighted symmetry index block.
	UseSymmetryWeights bool

	// WeightField selects the facet field used as the symmetry weight:
	// solid_angle, area, volume or face_dist.
	WeightField string

	// VolumeStats, AreaStats and DistStats name the statistics computed
	// over the facet volume, area and doubled face-distance lists.
	VolumeStats []string
	AreaStats   []string
	DistStats   []string
}

// Aggregator computes the Voronoi fingerprint block under a fixed Config.
// Labels and Compute always agree on length and order.
type Aggregator struct {
	cfg    Config
	weight func(FacetRecord) float64
}

// NewAggregator validates cfg and returns an Aggregator.  Unknown weight
// fields and statistics are configuration errors, reported here rather than
// per structure.
func NewAggregator(cfg Config) (*Aggregator, error) {
	a := &Aggregator{cfg: cfg}
	if cfg.UseSymmetryWeights {
		switch cfg.WeightField {
		case WeightSolidAngle:
			a.weight = func(f FacetRecord) float64 { return f.SolidAngle }
		case WeightArea:
			a.weight = func(f FacetRecord) float64 { return f.Area }
		case WeightVolume:
			a.weight = func(f FacetRecord) float64 { return f.Volume }
		case WeightFaceDist:
			a.weight = func(f FacetRecord) float64 { return f.FaceDist }
		default:
			return nil, errors.Newf(errors.ErrCodeValidation,
				"unrecognized symmetry weight field %q", cfg.WeightField)
		}
	}
	for _, stats := range [][]string{cfg.VolumeStats, cfg.AreaStats, cfg.DistStats} {
		if err := ValidateStats(stats); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Width returns the fingerprint vector length under the aggregator's config.
func (a *Aggregator) Width() int {
	return len(a.Labels())
}

// Labels returns the fingerprint column names, in vector order.
func (a *Aggregator) Labels() []string {
	var labels []string
	for v := minVerts; v <= maxVerts; v++ {
		labels = append(labels, fmt.Sprintf("Voro_index_%d", v))
	}
	for v := minVerts; v <= maxVerts; v++ {
		labels = append(labels, fmt.Sprintf("Symmetry_index_%d", v))
	}
	if a.cfg.UseSymmetryWeights {
		for v := minVerts; v <= maxVerts; v++ {
			labels = append(labels, fmt.Sprintf("Symmetry_weighted_index_%d", v))
		}
	}
	labels = append(labels, "Voro_vol_sum", "Voro_area_sum")
	for _, stat := range a.cfg.VolumeStats {
		labels = append(labels, "Voro_vol_"+stat)
	}
	for _, stat := range a.cfg.AreaStats {
		labels = append(labels, "Voro_area_"+stat)
	}
	for _, stat := range a.cfg.DistStats {
		labels = append(labels, "Voro_dist_"+stat)
	}
	return labels
}

// Compute turns one site's facet records into its fingerprint vector.
//
// Facets with fewer than three or more than ten vertices are dropped
// entirely; they contribute to neither the histogram, the symmetry indices,
// the sums, nor the statistics.  A histogram (or weight total) of zero
// leaves the symmetry indices undefined and yields a
// DegenerateTessellation error.
func (a *Aggregator) Compute(facets []FacetRecord) ([]float64, error) {
	hist := make([]float64, histBins)
	weighted := make([]float64, histBins)
	weightTotal := 0.0

	vols := make([]float64, 0, len(facets))
	areas := make([]float64, 0, len(facets))
	dists := make([]float64, 0, len(facets))

	for _, f := range facets {
		bin := f.Verts - minVerts
		if bin < 0 || bin >= histBins {
			continue
		}
		hist[bin]++
		if a.cfg.UseSymmetryWeights {
			w := a.weight(f)
			weighted[bin] += w
			weightTotal += w
		}
		vols = append(vols, f.Volume)
		areas = append(areas, f.Area)
		dists = append(dists, 2*f.FaceDist)
	}

	histTotal := 0.0
	for _, h := range hist {
		histTotal += h
	}
	if histTotal == 0 {
		return nil, errors.New(errors.ErrCodeDegenerateTessellation,
			"no facets with 3 to 10 vertices")
	}

	vec := make([]float64, 0, a.Width())
	vec = append(vec, hist...)
	for _, h := range hist {
		vec = append(vec, h/histTotal)
	}
	if a.cfg.UseSymmetryWeights {
		if weightTotal == 0 {
			return nil, errors.Newf(errors.ErrCodeDegenerateTessellation,
				"total %s weight is zero", a.cfg.WeightField)
		}
		for _, w := range weighted {
			vec = append(vec, w/weightTotal)
		}
	}

	vec = append(vec, sum(vols), sum(areas))
	for _, block := range []struct {
		stats  []string
		values []float64
	}{
		{a.cfg.VolumeStats, vols},
		{a.cfg.AreaStats, areas},
		{a.cfg.DistStats, dists},
	} {
		stats, err := evalStats(block.stats, block.values)
		if err != nil {
			return nil, err
		}
		vec = append(vec, stats...)
	}
	return vec, nil
}

// ComputeAll computes the fingerprint of every site from its facet records,
// attaching the site index to any per-site failure.
func (a *Aggregator) ComputeAll(facets [][]FacetRecord) ([][]float64, error) {
	out := make([][]float64, len(facets))
	for i, site := range facets {
		vec, err := a.Compute(site)
		if err != nil {
			return nil, errors.Wrap(err, errors.GetCode(err),
				"voronoi fingerprint failed").WithSite(i)
		}
		out[i] = vec
	}
	return out, nil
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}
