package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeTimeout            ErrorCode = "COMMON_004"
	ErrCodeValidation         ErrorCode = "COMMON_005"
	ErrCodeSerialization      ErrorCode = "COMMON_006"
	ErrCodeCacheError         ErrorCode = "COMMON_007"
	ErrCodeStorageError       ErrorCode = "COMMON_008"
	ErrCodeExternalService    ErrorCode = "COMMON_009"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_010"
)

// Short aliases used throughout the codebase.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// Featurization error codes.
//
// These classify the failure modes of the descriptor pipeline: property
// lookups, shell aggregation, and tessellation fingerprinting.
const (
	// ErrCodeUnknownSpecies: an atomic number has no covalent radius or
	// elemental property entry.  Fatal for the structure being processed.
	ErrCodeUnknownSpecies ErrorCode = "FFP_001"

	// ErrCodeEmptyShell: a site's first or second bonded shell is empty, so
	// the shell mean aggregates are undefined.
	ErrCodeEmptyShell ErrorCode = "FFP_002"

	// ErrCodeDegenerateTessellation: every facet of a site's Voronoi
	// polyhedron was discarded (or all weights are zero), so the symmetry
	// indices are undefined.
	ErrCodeDegenerateTessellation ErrorCode = "FFP_003"

	// ErrCodeUnsupportedPrecursor: a requested force-field precursor type is
	// not one of the recognized identifiers.
	ErrCodeUnsupportedPrecursor ErrorCode = "FFP_004"

	// ErrCodeStructureInvalid: the input structure is malformed (asymmetric
	// or wrong-shaped distance matrix, missing species, no sites).
	ErrCodeStructureInvalid ErrorCode = "FFP_005"

	// ErrCodeFeaturizerFailed: a delegated external featurizer returned an
	// error or a block of unexpected width.
	ErrCodeFeaturizerFailed ErrorCode = "FFP_006"

	// ErrCodeTessellationFailed: the tessellation provider failed to return
	// facet records for a structure.
	ErrCodeTessellationFailed ErrorCode = "FFP_007"
)

// Prediction error codes.
const (
	ErrCodeArtifactNotFound   ErrorCode = "PRED_001"
	ErrCodeArtifactCorrupt    ErrorCode = "PRED_002"
	ErrCodeModelEvalFailed    ErrorCode = "PRED_003"
	ErrCodeScalerShapeError   ErrorCode = "PRED_004"
	ErrCodeEnsembleIncomplete ErrorCode = "PRED_005"
)
