package featurize

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/mofml/ffpgen/internal/domain/structure"
	"github.com/mofml/ffpgen/internal/featurize/voronoi"
	"github.com/mofml/ffpgen/pkg/errors"
)

// maxErrorBody caps how much of an error response is read back for the
// error message.
const maxErrorBody = 4 << 10

// RemoteClient talks to the external geometry services over HTTP: the
// featurizer service for the delegated descriptor blocks and the
// tessellation service for Voronoi facets.  It implements both
// SiteFeaturizer and voronoi.Tessellator.
type RemoteClient struct {
	featurizerURL  string
	tessellatorURL string
	httpClient     *http.Client
}

// NewRemoteClient returns a RemoteClient for the given service endpoints.
// timeout bounds each request end to end; use zero for no limit beyond the
// caller's context.
func NewRemoteClient(featurizerURL, tessellatorURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		featurizerURL:  featurizerURL,
		tessellatorURL: tessellatorURL,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

type featurizeRequest struct {
	Structure json.RawMessage `json:"structure"`
	Blocks    []string        `json:"blocks"`
}

type featurizeResponse struct {
	Blocks map[string]Block `json:"blocks"`
}

// FeaturizeSites requests the named descriptor blocks from the featurizer
// service and validates their shape: each block must carry one row per site
// and one value per label.
func (c *RemoteClient) FeaturizeSites(ctx context.Context, s *structure.Structure, blocks []string) (map[string]Block, error) {
	doc, err := encodeStructure(s)
	if err != nil {
		return nil, err
	}
	body := featurizeRequest{Structure: doc, Blocks: blocks}

	var resp featurizeResponse
	if err := c.postJSON(ctx, c.featurizerURL+"/v1/featurize", body, &resp); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFeaturizerFailed, "featurizer service request failed")
	}

	for _, name := range blocks {
		block, ok := resp.Blocks[name]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeFeaturizerFailed,
				"featurizer response missing block %q", name)
		}
		if len(block.Rows) != s.Len() {
			return nil, errors.Newf(errors.ErrCodeFeaturizerFailed,
				"block %q has %d rows for %d sites", name, len(block.Rows), s.Len())
		}
		for i, row := range block.Rows {
			if len(row) != len(block.Labels) {
				return nil, errors.Newf(errors.ErrCodeFeaturizerFailed,
					"block %q row has %d values for %d labels", name, len(row), len(block.Labels)).WithSite(i)
			}
		}
	}
	return resp.Blocks, nil
}

type tessellateRequest struct {
	Structure json.RawMessage `json:"structure"`
	Cutoff    float64         `json:"cutoff"`
}

type tessellateResponse struct {
	Sites [][]voronoi.FacetRecord `json:"sites"`
}

// Tessellate requests the Voronoi facets of every site from the
// tessellation service.
func (c *RemoteClient) Tessellate(ctx context.Context, s *structure.Structure, cutoff float64) ([][]voronoi.FacetRecord, error) {
	doc, err := encodeStructure(s)
	if err != nil {
		return nil, err
	}
	body := tessellateRequest{Structure: doc, Cutoff: cutoff}

	var resp tessellateResponse
	if err := c.postJSON(ctx, c.tessellatorURL+"/v1/tessellate", body, &resp); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTessellationFailed, "tessellation service request failed")
	}
	if len(resp.Sites) != s.Len() {
		return nil, errors.Newf(errors.ErrCodeTessellationFailed,
			"tessellation response has %d sites, want %d", len(resp.Sites), s.Len())
	}
	return resp.Sites, nil
}

func (c *RemoteClient) postJSON(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.Newf(errors.ErrCodeExternalService,
			"%s returned HTTP %d: %s", url, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode response")
	}
	return nil
}

func encodeStructure(s *structure.Structure) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := structure.EncodeJSON(&buf, s); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

var (
	_ SiteFeaturizer      = (*RemoteClient)(nil)
	_ voronoi.Tessellator = (*RemoteClient)(nil)
)
