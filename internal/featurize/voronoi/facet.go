// Package voronoi turns per-site Voronoi tessellation facets into the
// fixed-order fingerprint block of the descriptor vector: a coordination
// histogram over facet vertex counts, normalized (and optionally weighted)
// symmetry indices, and summary statistics over facet volumes, areas and
// face distances.
package voronoi

import (
	"context"

	"github.com/mofml/ffpgen/internal/domain/structure"
)

// FacetRecord is one facet of a site's Voronoi polyhedron, as reported by a
// Tessellator.
type FacetRecord struct {
	// Verts is the number of vertices bounding the facet.
	Verts int `json:"n_verts"`

	// SolidAngle is the solid angle the facet subtends at the site.
	SolidAngle float64 `json:"solid_angle"`

	// Area is the facet area in Å².
	Area float64 `json:"area"`

	// Volume is the volume of the sub-polyhedron the facet caps, in Å³.
	Volume float64 `json:"volume"`

	// FaceDist is the distance from the site to the facet plane, half the
	// distance to the neighbor the facet separates it from.
	FaceDist float64 `json:"face_dist"`
}

// Tessellator produces the Voronoi facets of every site of a structure,
// considering neighbors out to the given cutoff in Å.  Implementations
// include the remote tessellation service client and its caching decorator.
type Tessellator interface {
	Tessellate(ctx context.Context, s *structure.Structure, cutoff float64) ([][]FacetRecord, error)
}

// Weight field identifiers accepted for the weighted symmetry indices.
const (
	WeightSolidAngle = "solid_angle"
	WeightArea       = "area"
	WeightVolume     = "volume"
	WeightFaceDist   = "face_dist"
)
