package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis hashes so several dashboard
// replicas can share them. Each session lives under one hash key with a
// rolling TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, ttl time.Duration) *RedisStore {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: c, ttl: ttl}
}

func sessionKey(sid string) string { return "dashboard:session:" + sid }

func (r *RedisStore) Get(ctx context.Context, sid, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, sessionKey(sid), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, sid, key, value string) error {
	k := sessionKey(sid)
	if err := r.client.HSet(ctx, k, key, value).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, k, r.ttl).Err()
}

func (r *RedisStore) Clear(ctx context.Context, sid string) error {
	return r.client.Del(ctx, sessionKey(sid)).Err()
}
