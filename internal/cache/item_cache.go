package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"fleamarket/models"

	"github.com/redis/go-redis/v9"
)

// ItemCache keeps item snapshots by id. Get returns (nil, nil) on a miss.
type ItemCache interface {
	Get(ctx context.Context, id uint) (*models.Item, error)
	Set(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uint) error
}

type RedisItemCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisItemCache(client *redis.Client, ttl time.Duration) *RedisItemCache {
	return &RedisItemCache{client: client, ttl: ttl}
}

func itemKey(id uint) string {
	return "item:" + strconv.FormatUint(uint64(id), 10)
}

// Entries are hashes holding the JSON snapshot under "data" and its version
// under "v". A deleted item keeps a tombstone with the highest version until
// the TTL runs out.
const tombstoneVersion = math.MaxInt64

// setIfNewer writes the snapshot unless the stored one carries a higher version.
var setIfNewer = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'v')
if current and tonumber(current) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'data', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

func version(item *models.Item) int64 {
	if item.UpdatedAt.IsZero() {
		return 0
	}
	return item.UpdatedAt.UnixNano()
}

func (c *RedisItemCache) Get(ctx context.Context, id uint) (*models.Item, error) {
	data, err := c.client.HGet(ctx, itemKey(id), "data").Bytes()
	if errors.Is(err, redis.Nil) || (err == nil && len(data) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var item models.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Set stores item unless the cache already holds a newer snapshot or a
// tombstone for it.
func (c *RedisItemCache) Set(ctx context.Context, item *models.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return setIfNewer.Run(ctx, c.client, []string{itemKey(item.ID)},
		version(item), data, c.ttl.Milliseconds()).Err()
}

// Delete replaces the entry with a tombstone so that a Set racing with the
// delete cannot bring the old snapshot back.
func (c *RedisItemCache) Delete(ctx context.Context, id uint) error {
	key := itemKey(id)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "v", int64(tombstoneVersion), "data", "")
		if c.ttl > 0 {
			pipe.PExpire(ctx, key, c.ttl)
		}
		return nil
	})
	return err
}

// NoopItemCache is used when no Redis address is configured.
type NoopItemCache struct{}

func (NoopItemCache) Get(context.Context, uint) (*models.Item, error) { return nil, nil }
func (NoopItemCache) Set(context.Context, *models.Item) error         { return nil }
func (NoopItemCache) Delete(context.Context, uint) error              { return nil }
