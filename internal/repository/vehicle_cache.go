package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"carrental/internal/db"

	"github.com/redis/go-redis/v9"
)

// VehicleCache holds single vehicles by id. Cache failures are never fatal:
// a miss falls back to the database.
type VehicleCache interface {
	Get(ctx context.Context, id int64) (*db.Vehicle, bool)
	Set(ctx context.Context, v db.Vehicle)
	Invalidate(ctx context.Context, id int64)
}

type NoopVehicleCache struct{}

func (NoopVehicleCache) Get(context.Context, int64) (*db.Vehicle, bool) { return nil, false }
func (NoopVehicleCache) Set(context.Context, db.Vehicle) {}
func (NoopVehicleCache) Invalidate(context.Context, int64) {}

// NewRedisClient creates a Redis client and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, database int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

type RedisVehicleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisVehicleCache(client *redis.Client, ttl time.Duration) *RedisVehicleCache {
	return &RedisVehicleCache{client: client, ttl: ttl}
}

func vehicleKey(id int64) string {
	return fmt.Sprintf("carrental:vehicle:%d", id)
}

func (c *RedisVehicleCache) Get(ctx context.Context, id int64) (*db.Vehicle, bool) {
	data, err := c.client.Get(ctx, vehicleKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Vehicle cache get %d failed: %v", id, err)
		}
		return nil, false
	}
	var v db.Vehicle
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("Vehicle cache entry %d is corrupt: %v", id, err)
		return nil, false
	}
	return &v, true
}

func (c *RedisVehicleCache) Set(ctx context.Context, v db.Vehicle) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, vehicleKey(v.ID), data, c.ttl).Err(); err != nil {
		log.Printf("Vehicle cache set %d failed: %v", v.ID, err)
	}
}

func (c *RedisVehicleCache) Invalidate(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, vehicleKey(id)).Err(); err != nil {
		log.Printf("Vehicle cache invalidate %d failed: %v", id, err)
	}
}
