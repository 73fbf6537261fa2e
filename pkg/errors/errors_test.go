package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownSpecies, "no covalent radius for Z=119")

	assert.Equal(t, ErrCodeUnknownSpecies, err.Code)
	assert.Equal(t, "no covalent radius for Z=119", err.Message)
	assert.Equal(t, -1, err.SiteIndex)
	assert.NotEmpty(t, err.Stack)
	assert.Equal(t, "[FFP_001] no covalent radius for Z=119", err.Error())
}

func TestWithSite(t *testing.T) {
	err := New(ErrCodeEmptyShell, "empty first shell").WithSite(7)

	assert.Equal(t, 7, err.SiteIndex)
	assert.Equal(t, "[FFP_002] empty first shell (site 7)", err.Error())

	// The original error is not mutated.
	base := New(ErrCodeEmptyShell, "empty first shell")
	_ = base.WithSite(3)
	assert.Equal(t, -1, base.SiteIndex)
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeStructureInvalid, "bad matrix").WithDetail("rows=3 cols=4")
	assert.Equal(t, "[FFP_005] bad matrix: rows=3 cols=4", err.Error())

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("x"))
	assert.Nil(t, nilErr.WithSite(1))
	assert.Nil(t, nilErr.WithCause(stderrors.New("y")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))

	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeStorageError, "failed to fetch scaler artifact")

	assert.Equal(t, ErrCodeStorageError, err.Code)
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrapPreservesCodeAndSite(t *testing.T) {
	inner := New(ErrCodeDegenerateTessellation, "all facets dropped").WithSite(4)
	outer := Wrap(inner, CodeUnknown, "fingerprint failed")

	assert.Equal(t, ErrCodeDegenerateTessellation, outer.Code)
	assert.Equal(t, 4, outer.SiteIndex)
	assert.True(t, IsCode(outer, ErrCodeDegenerateTessellation))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeEmptyShell, "empty second shell").WithSite(2))

	assert.True(t, IsCode(err, ErrCodeEmptyShell))
	assert.False(t, IsCode(err, ErrCodeUnknownSpecies))
	assert.False(t, IsCode(nil, ErrCodeEmptyShell))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeUnsupportedPrecursor, GetCode(New(ErrCodeUnsupportedPrecursor, "nope")))
}

func TestSiteOf(t *testing.T) {
	require.Equal(t, -1, SiteOf(stderrors.New("plain")))

	err := fmt.Errorf("wrapped: %w", New(ErrCodeEmptyShell, "x").WithSite(11))
	assert.Equal(t, 11, SiteOf(err))
}

func TestConvenienceFactories(t *testing.T) {
	assert.Equal(t, CodeInvalidParam, InvalidParam("bad").Code)
	assert.Equal(t, CodeNotFound, NotFound("missing").Code)
	assert.Equal(t, CodeInternal, Internal("boom").Code)
}
