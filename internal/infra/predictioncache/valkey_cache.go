package predictioncache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

// ValkeyCache stores upstream results in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "ppgi"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (glycemic.PredictionResult, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.entryKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return glycemic.PredictionResult{}, false, nil
		}
		return glycemic.PredictionResult{}, false, err
	}
	var result glycemic.PredictionResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return glycemic.PredictionResult{}, false, err
	}
	return result, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, result glycemic.PredictionResult, ttl time.Duration) error {
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

func (c *ValkeyCache) entryKey(key string) string {
	return fmt.Sprintf("%s:prediction:%s", c.prefix, key)
}

var _ prediction.Cache = (*ValkeyCache)(nil)

// Close releases the underlying client.
func (c *ValkeyCache) Close() error {
	c.client.Close()
	return nil
}
