package structure

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mofml/ffpgen/internal/domain/elements"
	"github.com/mofml/ffpgen/pkg/errors"
)

// document is the JSON wire form of a Structure.  The distance matrix is
// optional on input (finite structures recompute it from positions) but is
// always written on output so downstream consumers see exactly the geometry
// the predictions were derived from.
type document struct {
	Name           string      `json:"name"`
	Sites          []Site      `json:"sites"`
	DistanceMatrix [][]float64 `json:"distance_matrix,omitempty"`
}

// DecodeJSON reads a Structure from its JSON document form.  When the
// document carries a distance matrix it is validated and used as-is
// (periodic structures); otherwise Euclidean distances are computed from
// the positions.
func DecodeJSON(r io.Reader) (*Structure, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode structure JSON")
	}
	if doc.DistanceMatrix != nil {
		return NewWithDistanceMatrix(doc.Name, doc.Sites, doc.DistanceMatrix)
	}
	return NewFinite(doc.Name, doc.Sites)
}

// EncodeJSON writes the structure, including any attached site properties
// and the distance matrix, as an indented JSON document.
func EncodeJSON(w io.Writer, s *Structure) error {
	doc := document{
		Name:           s.Name(),
		Sites:          s.Sites(),
		DistanceMatrix: s.DistanceMatrix(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode structure JSON")
	}
	return nil
}

// ReadXYZ parses an XYZ file: an atom-count line, a comment line (used as
// the structure name when non-empty), then one "Symbol x y z" line per
// atom.  The result is a finite structure with Euclidean distances.
func ReadXYZ(r io.Reader, table *elements.Table) (*Structure, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, errors.New(errors.ErrCodeSerialization, "empty XYZ input")
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || count <= 0 {
		return nil, errors.Newf(errors.ErrCodeSerialization,
			"bad XYZ atom count line %q", scanner.Text())
	}

	name := ""
	if scanner.Scan() {
		name = strings.TrimSpace(scanner.Text())
	}

	sites := make([]Site, 0, count)
	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			return nil, errors.Newf(errors.ErrCodeSerialization,
				"XYZ input truncated: got %d of %d atom lines", i, count)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			return nil, errors.Newf(errors.ErrCodeSerialization,
				"XYZ atom line %d has %d fields, want at least 4", i, len(fields))
		}
		z, err := table.AtomicNumber(fields[0])
		if err != nil {
			return nil, err
		}
		var pos [3]float64
		for k := 0; k < 3; k++ {
			pos[k], err = strconv.ParseFloat(fields[k+1], 64)
			if err != nil {
				return nil, errors.Newf(errors.ErrCodeSerialization,
					"XYZ atom line %d: bad coordinate %q", i, fields[k+1])
			}
		}
		sites = append(sites, Site{Species: z, Position: pos})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to read XYZ input")
	}
	return NewFinite(name, sites)
}

// WriteXYZ writes the structure in XYZ form, one "Symbol x y z" line per
// site.  Attached properties are not representable in XYZ; use EncodeJSON
// to persist predictions.
func WriteXYZ(w io.Writer, s *Structure, table *elements.Table) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%s\n", s.Len(), s.Name())
	for i := 0; i < s.Len(); i++ {
		site := s.Site(i)
		props, err := table.Lookup(site.Species)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%s %.8f %.8f %.8f\n",
			props.Symbol, site.Position[0], site.Position[1], site.Position[2])
	}
	return bw.Flush()
}
