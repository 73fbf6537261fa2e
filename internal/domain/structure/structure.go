// Package structure defines the atomic-structure model consumed by the
// descriptor pipeline: an ordered list of sites with species and positions,
// a site-to-site distance matrix, and per-site scalar properties attached
// after prediction.
//
// The distance matrix is the structure's geometric source of truth.  For
// finite (molecular) structures it is computed here from Cartesian
// positions; for periodic structures it must be supplied by the loader that
// resolved the periodic boundary conditions, since this package deliberately
// implements no minimum-image math.
package structure

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"

	"github.com/mofml/ffpgen/pkg/errors"
)

// Site is one atom of a Structure, identified by its index.
type Site struct {
	// Species is the atomic number.
	Species int `json:"species"`

	// Position is the Cartesian position in Å.
	Position [3]float64 `json:"position"`

	// Properties holds per-site scalars attached by the prediction
	// pipeline (e.g. "partial_charge").  Nil until something is attached.
	Properties map[string]float64 `json:"properties,omitempty"`
}

// Structure is an immutable-during-featurization arrangement of atoms.
type Structure struct {
	name  string
	sites []Site
	dist  [][]float64
}

// symmetryTol bounds the allowed asymmetry in a supplied distance matrix.
const symmetryTol = 1e-8

// NewFinite builds a Structure for a non-periodic arrangement, computing the
// Euclidean distance matrix from the site positions.
func NewFinite(name string, sites []Site) (*Structure, error) {
	if len(sites) == 0 {
		return nil, errors.New(errors.ErrCodeStructureInvalid, "structure has no sites")
	}
	n := len(sites)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := sites[i].Position[0] - sites[j].Position[0]
			dy := sites[i].Position[1] - sites[j].Position[1]
			dz := sites[i].Position[2] - sites[j].Position[2]
			d := math.Sqrt(dx*dx + dy*dy + dz*dz)
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return &Structure{name: name, sites: copySites(sites), dist: dist}, nil
}

// NewWithDistanceMatrix builds a Structure whose distances were computed by
// an external loader (typically respecting periodic boundary conditions).
// The matrix must be square of size len(sites), symmetric within 1e-8, and
// zero on the diagonal.
func NewWithDistanceMatrix(name string, sites []Site, dist [][]float64) (*Structure, error) {
	if len(sites) == 0 {
		return nil, errors.New(errors.ErrCodeStructureInvalid, "structure has no sites")
	}
	n := len(sites)
	if len(dist) != n {
		return nil, errors.Newf(errors.ErrCodeStructureInvalid,
			"distance matrix has %d rows for %d sites", len(dist), n)
	}
	for i, row := range dist {
		if len(row) != n {
			return nil, errors.Newf(errors.ErrCodeStructureInvalid,
				"distance matrix row %d has %d columns, want %d", i, len(row), n)
		}
		if row[i] != 0 {
			return nil, errors.Newf(errors.ErrCodeStructureInvalid,
				"distance matrix diagonal entry %d is %g, want 0", i, row[i])
		}
	}
	copied := make([][]float64, n)
	for i := range copied {
		copied[i] = make([]float64, n)
		copy(copied[i], dist[i])
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(copied[i][j]-copied[j][i]) > symmetryTol {
				return nil, errors.Newf(errors.ErrCodeStructureInvalid,
					"distance matrix asymmetric at (%d,%d): %g vs %g", i, j, copied[i][j], copied[j][i])
			}
		}
	}
	return &Structure{name: name, sites: copySites(sites), dist: copied}, nil
}

func copySites(sites []Site) []Site {
	out := make([]Site, len(sites))
	copy(out, sites)
	for i := range out {
		if sites[i].Properties != nil {
			props := make(map[string]float64, len(sites[i].Properties))
			for k, v := range sites[i].Properties {
				props[k] = v
			}
			out[i].Properties = props
		}
	}
	return out
}

// Name returns the structure identity used in logs and cache keys.
func (s *Structure) Name() string { return s.name }

// Len returns the number of sites.
func (s *Structure) Len() int { return len(s.sites) }

// Site returns the site at index i.
func (s *Structure) Site(i int) Site { return s.sites[i] }

// Sites returns a copy of the site list.
func (s *Structure) Sites() []Site { return copySites(s.sites) }

// Species returns the atomic number of every site in index order.
func (s *Structure) Species() []int {
	out := make([]int, len(s.sites))
	for i, site := range s.sites {
		out[i] = site.Species
	}
	return out
}

// DistanceMatrix exposes the symmetric site-to-site distance matrix with a
// zero diagonal.  The returned slices are the structure's own backing
// storage: callers must treat them as read-only.
func (s *Structure) DistanceMatrix() [][]float64 { return s.dist }

// Distance returns the distance between sites i and j.
func (s *Structure) Distance(i, j int) float64 { return s.dist[i][j] }

// SetSiteProperty attaches one scalar per site under the given name.
// values must have exactly one entry per site.
func (s *Structure) SetSiteProperty(name string, values []float64) error {
	if len(values) != len(s.sites) {
		return errors.Newf(errors.ErrCodeStructureInvalid,
			"property %q has %d values for %d sites", name, len(values), len(s.sites))
	}
	for i := range s.sites {
		if s.sites[i].Properties == nil {
			s.sites[i].Properties = make(map[string]float64)
		}
		s.sites[i].Properties[name] = values[i]
	}
	return nil
}

// SiteProperty collects the named per-site property in index order.
// Returns a NotFound error when any site lacks the property.
func (s *Structure) SiteProperty(name string) ([]float64, error) {
	out := make([]float64, len(s.sites))
	for i, site := range s.sites {
		v, ok := site.Properties[name]
		if !ok {
			return nil, errors.NotFound("site property " + name).WithSite(i)
		}
		out[i] = v
	}
	return out, nil
}

// PropertyNames returns the sorted union of property names attached to any
// site.
func (s *Structure) PropertyNames() []string {
	seen := map[string]struct{}{}
	for _, site := range s.sites {
		for name := range site.Properties {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fingerprint returns a deterministic hex digest of the structure's species
// and distance matrix.  It identifies the structure for tessellation
// memoization: two loads of the same geometry hash identically regardless
// of name or attached properties.
func (s *Structure) Fingerprint() string {
	h := sha256.New()
	var buf [8]byte
	for _, site := range s.sites {
		binary.LittleEndian.PutUint64(buf[:], uint64(site.Species))
		h.Write(buf[:])
		for _, c := range site.Position {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c))
			h.Write(buf[:])
		}
	}
	for i := range s.dist {
		for j := i + 1; j < len(s.dist); j++ {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(s.dist[i][j]))
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
