// Package predict turns assembled descriptor matrices into per-site
// force-field precursor values: features are standardized, evaluated by an
// ensemble of trained models, averaged, and post-processed per precursor
// type.
package predict

import (
	"github.com/mofml/ffpgen/pkg/errors"
)

// PrecursorType identifies one predictable force-field precursor.
type PrecursorType string

// The supported precursor types.
const (
	PartialCharge             PrecursorType = "partial_charge"
	FluctuatingPolarizability PrecursorType = "fluctuating_polarizability"
	FFPolarizability          PrecursorType = "FF_polarizability"
	C6Coefficient             PrecursorType = "C6_coefficient"
	QDOMass                   PrecursorType = "QDO_mass"
	QDOCharge                 PrecursorType = "QDO_charge"
	QDOFrequency              PrecursorType = "QDO_frequency"
	AElectronParameter        PrecursorType = "a_electron_parameter"
	BElectronParameter        PrecursorType = "b_electron_parameter"
)

// All returns every supported precursor type, in a stable order.
func All() []PrecursorType {
	return []PrecursorType{
		PartialCharge,
		FluctuatingPolarizability,
		FFPolarizability,
		C6Coefficient,
		QDOMass,
		QDOCharge,
		QDOFrequency,
		AElectronParameter,
		BElectronParameter,
	}
}

// logScaled marks the types whose models were trained on log10-transformed
// targets; their predictions are exponentiated back.
var logScaled = map[PrecursorType]bool{
	FluctuatingPolarizability: true,
	FFPolarizability:          true,
	C6Coefficient:             true,
}

// Parse validates a precursor type identifier.  Unknown identifiers fail
// before any featurization or model loading happens.
func Parse(s string) (PrecursorType, error) {
	t := PrecursorType(s)
	for _, known := range All() {
		if t == known {
			return t, nil
		}
	}
	return "", errors.Newf(errors.ErrCodeUnsupportedPrecursor,
		"unsupported precursor type %q", s)
}

// String returns the identifier, which doubles as the attached site
// property name.
func (t PrecursorType) String() string { return string(t) }
