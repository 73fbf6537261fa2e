// Package http exposes the service over a JSON API: structure featurization
// and precursor prediction, plus health and metrics endpoints.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mofml/ffpgen/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SiteIndex *int   `json:"site_index,omitempty"`
}

// statusFor maps error codes to HTTP statuses.  Bad input is 4xx, upstream
// trouble is 502, everything else is masked as 500.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeBadRequest, errors.ErrCodeValidation, errors.ErrCodeSerialization,
		errors.ErrCodeUnsupportedPrecursor, errors.ErrCodeStructureInvalid, errors.ErrCodeUnknownSpecies:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeArtifactNotFound:
		return http.StatusNotFound
	case errors.ErrCodeEmptyShell, errors.ErrCodeDegenerateTessellation:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeExternalService, errors.ErrCodeServiceUnavailable,
		errors.ErrCodeFeaturizerFailed, errors.ErrCodeTessellationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as an ErrorResponse.  Internal errors are masked;
// everything else carries its code, message, and site index when set.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, ErrorResponse{
			Code:    errors.ErrCodeInternal.String(),
			Message: "internal server error",
		})
		return
	}
	resp := ErrorResponse{
		Code:    errors.GetCode(err).String(),
		Message: err.Error(),
	}
	if site := errors.SiteOf(err); site >= 0 {
		resp.SiteIndex = &site
	}
	c.JSON(status, resp)
}
