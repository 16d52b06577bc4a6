package cart

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "cart:"

type RedisPersister struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisPersister keeps one JSON document per owner under "cart:<owner>".
// A zero ttl means snapshots never expire.
func NewRedisPersister(rdb *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{rdb: rdb, ttl: ttl}
}

func (p *RedisPersister) Read(ctx context.Context, owner string) ([]byte, bool, error) {
	data, err := p.rdb.Get(ctx, redisKeyPrefix+owner).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (p *RedisPersister) Write(ctx context.Context, owner string, data []byte) error {
	return p.rdb.Set(ctx, redisKeyPrefix+owner, data, p.ttl).Err()
}

func (p *RedisPersister) Delete(ctx context.Context, owner string) error {
	return p.rdb.Del(ctx, redisKeyPrefix+owner).Err()
}

func (p *RedisPersister) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}
