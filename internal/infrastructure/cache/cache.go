// Package cache provides the tessellation memoization layer: a small
// key-value Cache interface with redis-backed and in-process
// implementations, and a Tessellator decorator that memoizes facet records
// by structure fingerprint.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mofml/ffpgen/pkg/errors"
)

var (
	// ErrCacheMiss is returned by Get when the key is absent or expired.
	ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")
)

// Cache is the key-value store used for memoization.  Values are serialized
// by the implementation; Get deserializes into dest.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// Serializer converts cached values to and from bytes.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (jsonSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
