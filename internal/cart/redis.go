package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tourigo/tourigo-client/pkg/config"
	pkgredis "github.com/tourigo/tourigo-client/pkg/redis"
)

type snapshotKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SnapshotKey(prefix, ownerID string) string
}

// RedisPersistence stores the cart snapshot in Redis under a per-owner key.
// The key also carries the cart TTL so abandoned snapshots expire server-side;
// the store still applies the LastMutatedAt check on load.
type RedisPersistence struct {
	kv  snapshotKV
	key string
	ttl time.Duration
}

// NewRedisPersistence builds a Redis-backed snapshot store for the given
// owner, keyed under the configured cart prefix.
func NewRedisPersistence(client *pkgredis.Client, cfg config.CartConfig, ownerID string) (*RedisPersistence, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ownerID == "" {
		return nil, fmt.Errorf("owner id required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return newRedisPersistence(client, cfg.KeyPrefix, ownerID, ttl), nil
}

func newRedisPersistence(kv snapshotKV, prefix, ownerID string, ttl time.Duration) *RedisPersistence {
	return &RedisPersistence{kv: kv, key: kv.SnapshotKey(prefix, ownerID), ttl: ttl}
}

func (r *RedisPersistence) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if pkgredis.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cart snapshot: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("decoding cart snapshot: %w", err)
	}
	return &snapshot, nil
}

func (r *RedisPersistence) Save(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding cart snapshot: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(data), r.ttl); err != nil {
		return fmt.Errorf("storing cart snapshot: %w", err)
	}
	return nil
}

func (r *RedisPersistence) Clear(ctx context.Context) error {
	if err := r.kv.Del(ctx, r.key); err != nil {
		return fmt.Errorf("clearing cart snapshot: %w", err)
	}
	return nil
}
