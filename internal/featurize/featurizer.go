// Package featurize assembles the full per-site descriptor matrix of a
// structure.  Three descriptor families are computed in-process (bonded
// connectivity, shell aggregates, Voronoi fingerprints); the remaining
// blocks are delegated to an external featurizer service through the
// SiteFeaturizer boundary.
package featurize

import (
	"context"

	"github.com/mofml/ffpgen/internal/domain/structure"
)

// Names of the externally computed descriptor blocks, in assembly order
// relative to each other.
const (
	BlockAGNI        = "agni"
	BlockCrystalNN   = "crystal_nn"
	BlockOrderParams = "order_parameters"
)

// Block is one named group of descriptor columns: a label per column and one
// row of values per site.
type Block struct {
	Labels []string    `json:"labels"`
	Rows   [][]float64 `json:"rows"`
}

// SiteFeaturizer computes named descriptor blocks for every site of a
// structure.  The returned map holds one Block per requested name, each with
// exactly one row per site.
type SiteFeaturizer interface {
	FeaturizeSites(ctx context.Context, s *structure.Structure, blocks []string) (map[string]Block, error)
}

// Matrix is the assembled descriptor matrix: one row per site, with Labels
// naming the columns in row order.
type Matrix struct {
	Labels []string
	Rows   [][]float64
}

// Width returns the number of descriptor columns.
func (m *Matrix) Width() int { return len(m.Labels) }
