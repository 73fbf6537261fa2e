// Package elements provides the static elemental property table used by the
// descriptor pipeline: per-element covalent radius, first ionization energy,
// and electronegativity, keyed by atomic number.  The table is embedded in
// the binary, parsed once at startup, and read-only afterwards, so it is
// safe for concurrent use.
//
// A lookup miss is an error, never a defaulted value: a species the table
// does not know cannot be bonded or described, and silently substituting a
// radius would corrupt every downstream descriptor.
package elements

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/mofml/ffpgen/pkg/errors"
)

//go:embed data/elemental_properties.json
var rawProperties []byte

// Properties holds the per-element constants consumed by the featurizers.
// Radii are in Å (Cordero 2008 single-bond covalent radii), ionization
// energies in eV, electronegativities on the Pauling scale.
type Properties struct {
	Symbol            string  `json:"symbol"`
	CovalentRadius    float64 `json:"covalent_radius"`
	IonizationEnergy  float64 `json:"ionization_energy"`
	Electronegativity float64 `json:"electronegativity"`
}

// Table is the immutable atomic-number → Properties mapping, with a reverse
// symbol index for parsing element symbols out of structure files.
type Table struct {
	byNumber map[int]Properties
	bySymbol map[string]int
}

// parseTable decodes the embedded JSON, which is keyed by the atomic number
// as a string ("1", "6", ...).
func parseTable(raw []byte) (*Table, error) {
	var keyed map[string]Properties
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, fmt.Errorf("elements: failed to parse property table: %w", err)
	}

	byNumber := make(map[int]Properties, len(keyed))
	bySymbol := make(map[string]int, len(keyed))
	for key, props := range keyed {
		z, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("elements: non-numeric atomic number key %q", key)
		}
		if z <= 0 {
			return nil, fmt.Errorf("elements: atomic number %d out of range", z)
		}
		byNumber[z] = props
		bySymbol[props.Symbol] = z
	}
	return &Table{byNumber: byNumber, bySymbol: bySymbol}, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the process-wide table parsed from the embedded dataset.
// The parse happens once; subsequent calls are lock-free map reads away.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = parseTable(rawProperties)
	})
	return defaultTable, defaultErr
}

// MustDefault wraps Default and panics on error.  The embedded table is a
// compile-time artifact, so a failure here is a build defect; intended for
// use in main() and tests.
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the properties for atomic number z, or an UnknownSpecies
// error when the element is not in the table.
func (t *Table) Lookup(z int) (Properties, error) {
	props, ok := t.byNumber[z]
	if !ok {
		return Properties{}, errors.Newf(errors.ErrCodeUnknownSpecies,
			"no elemental properties for atomic number %d", z)
	}
	return props, nil
}

// CovalentRadius returns the covalent radius for atomic number z.
func (t *Table) CovalentRadius(z int) (float64, error) {
	props, err := t.Lookup(z)
	if err != nil {
		return 0, err
	}
	return props.CovalentRadius, nil
}

// AtomicNumber resolves an element symbol ("Zn") to its atomic number.
func (t *Table) AtomicNumber(symbol string) (int, error) {
	z, ok := t.bySymbol[symbol]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeUnknownSpecies,
			"unknown element symbol %q", symbol)
	}
	return z, nil
}

// Len reports the number of elements in the table.
func (t *Table) Len() int {
	return len(t.byNumber)
}
