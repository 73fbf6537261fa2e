package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mofml/ffpgen/internal/application/precursor"
	"github.com/mofml/ffpgen/internal/domain/structure"
	"github.com/mofml/ffpgen/pkg/errors"
)

// PrecursorHandler serves the featurize and predict endpoints.
type PrecursorHandler struct {
	svc *precursor.Service
}

// NewPrecursorHandler returns a handler over the application service.
func NewPrecursorHandler(svc *precursor.Service) *PrecursorHandler {
	return &PrecursorHandler{svc: svc}
}

type featurizeRequest struct {
	Structure json.RawMessage `json:"structure" binding:"required"`
}

type featurizeResponse struct {
	Labels []string    `json:"labels"`
	Rows   [][]float64 `json:"rows"`
}

// Featurize handles POST /v1/featurize: it decodes the structure, assembles
// its descriptor matrix, and returns labels plus per-site rows.
func (h *PrecursorHandler) Featurize(c *gin.Context) {
	var req featurizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request body"))
		return
	}
	st, err := structure.DecodeJSON(bytes.NewReader(req.Structure))
	if err != nil {
		writeError(c, err)
		return
	}

	m, err := h.svc.Featurize(c.Request.Context(), st)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, featurizeResponse{Labels: m.Labels, Rows: m.Rows})
}

type predictRequest struct {
	Structure      json.RawMessage `json:"structure" binding:"required"`
	PrecursorTypes []string        `json:"precursor_types"`
}

// Predict handles POST /v1/predict: it decodes the structure, predicts the
// requested precursor types (all of them when the list is empty), and
// returns the structure document with predictions attached as per-site
// properties.
func (h *PrecursorHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request body"))
		return
	}
	st, err := structure.DecodeJSON(bytes.NewReader(req.Structure))
	if err != nil {
		writeError(c, err)
		return
	}

	if len(req.PrecursorTypes) == 0 {
		st, err = h.svc.PredictAll(c.Request.Context(), st)
	} else {
		st, err = h.svc.Predict(c.Request.Context(), st, req.PrecursorTypes)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := structure.EncodeJSON(&buf, st); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	ready func() error
}

// NewHealthHandler returns a handler; ready reports readiness of the
// service's dependencies and may be nil when there is nothing to check.
func NewHealthHandler(ready func() error) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
