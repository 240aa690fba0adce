package summarycache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/content-digest/internal/domain/pipeline"
)

// ValkeyCache shares summaries between instances through a Valkey-compatible server.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache that namespaces keys under prefix.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "digest"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (pipeline.Result, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.entryKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return pipeline.Result{}, false, nil
		}
		return pipeline.Result{}, false, err
	}
	var result pipeline.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return pipeline.Result{}, false, err
	}
	return result, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, result pipeline.Result, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

// Close releases the underlying connections.
func (c *ValkeyCache) Close() {
	c.client.Close()
}

func (c *ValkeyCache) entryKey(key string) string {
	return c.prefix + ":" + key
}

var _ pipeline.ResultCache = (*ValkeyCache)(nil)
