// Package bondgraph derives the bonded connectivity of a structure from its
// distance matrix and per-element covalent radii.  Two sites are bonded when
// they sit closer than the sum of their covalent radii plus a tolerance; the
// result is a symmetric adjacency with a zero diagonal that the shell
// descriptors aggregate over.
package bondgraph

import (
	"github.com/mofml/ffpgen/internal/domain/elements"
	"github.com/mofml/ffpgen/internal/domain/structure"
)

// prefilterDistance caps the pair distances ever considered for bonding.
// No covalent radius pair plus tolerance comes close to this, so pairs at or
// beyond it are skipped without a radius lookup.
const prefilterDistance = 6.1

// Graph is the bonded adjacency of a structure.  It is immutable after
// construction and safe for concurrent reads.
type Graph struct {
	adj [][]bool
}

// Builder computes bond graphs against a fixed element table and tolerance.
type Builder struct {
	table     *elements.Table
	tolerance float64
}

// NewBuilder returns a Builder using the given element table and bond
// tolerance in Å.
func NewBuilder(table *elements.Table, tolerance float64) *Builder {
	return &Builder{table: table, tolerance: tolerance}
}

// Build computes the bond graph of s.  Every unordered site pair within the
// prefilter distance is tested against the covalent radius sum of its two
// species plus the builder's tolerance; a failed radius lookup aborts the
// whole build, since connectivity derived from a partial table would be
// silently wrong for every descriptor downstream.
func (b *Builder) Build(s *structure.Structure) (*Graph, error) {
	n := s.Len()
	radii := make([]float64, n)
	for i := 0; i < n; i++ {
		r, err := b.table.CovalentRadius(s.Site(i).Species)
		if err != nil {
			return nil, err
		}
		radii[i] = r
	}

	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := s.Distance(i, j)
			if d >= prefilterDistance {
				continue
			}
			if d < radii[i]+radii[j]+b.tolerance {
				adj[i][j] = true
				adj[j][i] = true
			}
		}
	}
	return &Graph{adj: adj}, nil
}

// Len returns the number of sites in the graph.
func (g *Graph) Len() int { return len(g.adj) }

// Bonded reports whether sites i and j share a bond.
func (g *Graph) Bonded(i, j int) bool { return g.adj[i][j] }

// Neighbors returns the indices of all sites bonded to i, in ascending
// order.
func (g *Graph) Neighbors(i int) []int {
	var out []int
	for j, bonded := range g.adj[i] {
		if bonded {
			out = append(out, j)
		}
	}
	return out
}

// Degree returns the number of sites bonded to i.
func (g *Graph) Degree(i int) int {
	n := 0
	for _, bonded := range g.adj[i] {
		if bonded {
			n++
		}
	}
	return n
}
