// Package shells computes the bonded-shell descriptor for each site: the
// site's own ionization energy and electronegativity, followed by counts and
// mean aggregates over its first and second bonded coordination spheres.
package shells

import (
	"github.com/mofml/ffpgen/internal/domain/elements"
	"github.com/mofml/ffpgen/internal/domain/structure"
	"github.com/mofml/ffpgen/internal/featurize/bondgraph"
	"github.com/mofml/ffpgen/pkg/errors"
)

// Width is the length of the per-site shell descriptor vector.
const Width = 10

// Labels returns the column names of the shell descriptor block, in vector
// order.
func Labels() []string {
	return []string{
		"ionization_energy",
		"electronegativity",
		"first_sphere_count",
		"first_sphere_mean_ionization_energy",
		"first_sphere_mean_electronegativity",
		"first_sphere_mean_distance",
		"second_sphere_count",
		"second_sphere_mean_ionization_energy",
		"second_sphere_mean_electronegativity",
		"second_sphere_mean_distance",
	}
}

// Aggregator computes shell descriptors against a fixed element table.
type Aggregator struct {
	table *elements.Table
}

// NewAggregator returns an Aggregator using the given element table.
func NewAggregator(table *elements.Table) *Aggregator {
	return &Aggregator{table: table}
}

// Describe computes the shell descriptor for site i of s under the bonded
// connectivity g.
//
// The first sphere is the set of sites bonded to i.  The second sphere is
// the union of the first sphere's neighborhoods, minus the first sphere and
// i itself.  All distance aggregates are measured from the origin site i,
// including the second-sphere mean.  An empty sphere makes the means
// undefined and yields an EmptyShell error carrying the site index.
func (a *Aggregator) Describe(s *structure.Structure, g *bondgraph.Graph, i int) ([]float64, error) {
	origin, err := a.table.Lookup(s.Site(i).Species)
	if err != nil {
		return nil, err
	}

	first := g.Neighbors(i)
	if len(first) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptyShell,
			"site has no bonded neighbors").WithSite(i)
	}

	inFirst := make(map[int]bool, len(first))
	for _, j := range first {
		inFirst[j] = true
	}
	var second []int
	seen := make(map[int]bool)
	for _, j := range first {
		for _, k := range g.Neighbors(j) {
			if k == i || inFirst[k] || seen[k] {
				continue
			}
			seen[k] = true
			second = append(second, k)
		}
	}
	if len(second) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptyShell,
			"site has no second coordination sphere").WithSite(i)
	}

	firstIE, firstEN, firstDist, err := a.sphereMeans(s, i, first)
	if err != nil {
		return nil, err
	}
	secondIE, secondEN, secondDist, err := a.sphereMeans(s, i, second)
	if err != nil {
		return nil, err
	}

	return []float64{
		origin.IonizationEnergy,
		origin.Electronegativity,
		float64(len(first)),
		firstIE,
		firstEN,
		firstDist,
		float64(len(second)),
		secondIE,
		secondEN,
		secondDist,
	}, nil
}

// DescribeAll computes the shell descriptor for every site, in site order.
func (a *Aggregator) DescribeAll(s *structure.Structure, g *bondgraph.Graph) ([][]float64, error) {
	out := make([][]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		vec, err := a.Describe(s, g, i)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// sphereMeans computes the mean ionization energy, electronegativity and
// origin-site distance over the given member sites.
func (a *Aggregator) sphereMeans(s *structure.Structure, origin int, members []int) (ie, en, dist float64, err error) {
	for _, j := range members {
		props, lerr := a.table.Lookup(s.Site(j).Species)
		if lerr != nil {
			return 0, 0, 0, lerr
		}
		ie += props.IonizationEnergy
		en += props.Electronegativity
		dist += s.Distance(origin, j)
	}
	n := float64(len(members))
	return ie / n, en / n, dist / n, nil
}
