package clientstate

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps client state per session in redis with a rolling TTL.
// All failures are logged and treated as a missing value.
type RedisStorage struct {
	client *redis.Client
	ctx    context.Context
	prefix string
	ttl    time.Duration
}

func NewRedisStorage(addr, password string, db int, prefix string) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStorage{
		client: rdb,
		ctx:    context.Background(),
		prefix: prefix,
		ttl:    30 * 24 * time.Hour,
	}
}

func (r *RedisStorage) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *RedisStorage) Get(key string) (string, bool) {
	data, err := r.client.Get(r.ctx, r.key(key)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("client state get %s failed: %v", key, err)
		}
		return "", false
	}
	return data, true
}

func (r *RedisStorage) Set(key string, value string) {
	if err := r.client.Set(r.ctx, r.key(key), value, r.ttl).Err(); err != nil {
		log.Printf("client state set %s failed: %v", key, err)
	}
}

func (r *RedisStorage) Delete(key string) {
	if err := r.client.Del(r.ctx, r.key(key)).Err(); err != nil {
		log.Printf("client state delete %s failed: %v", key, err)
	}
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
