package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mofml/ffpgen/internal/domain/structure"
	"github.com/mofml/ffpgen/internal/featurize/voronoi"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
)

// CachingTessellator memoizes an inner Tessellator by structure fingerprint
// and cutoff.  Concurrent requests for the same geometry collapse into one
// upstream call via singleflight; cache failures degrade to a direct call
// and are logged, never surfaced.
type CachingTessellator struct {
	inner  voronoi.Tessellator
	cache  Cache
	ttl    time.Duration
	logger logging.Logger
	group  singleflight.Group
}

// NewCachingTessellator wraps inner with memoization through cache.
func NewCachingTessellator(inner voronoi.Tessellator, cache Cache, ttl time.Duration, logger logging.Logger) *CachingTessellator {
	return &CachingTessellator{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

// Tessellate returns the memoized facets for s at the given cutoff,
// computing and storing them on a miss.
func (t *CachingTessellator) Tessellate(ctx context.Context, s *structure.Structure, cutoff float64) ([][]voronoi.FacetRecord, error) {
	key := fmt.Sprintf("tess:%s:%g", s.Fingerprint(), cutoff)

	var cached [][]voronoi.FacetRecord
	err := t.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if err != ErrCacheMiss {
		t.logger.Warn("tessellation cache read failed", logging.Err(err))
	}

	v, err, _ := t.group.Do(key, func() (interface{}, error) {
		facets, err := t.inner.Tessellate(ctx, s, cutoff)
		if err != nil {
			return nil, err
		}
		if err := t.cache.Set(ctx, key, facets, t.ttl); err != nil {
			t.logger.Warn("tessellation cache write failed", logging.Err(err))
		}
		return facets, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([][]voronoi.FacetRecord), nil
}

var _ voronoi.Tessellator = (*CachingTessellator)(nil)
