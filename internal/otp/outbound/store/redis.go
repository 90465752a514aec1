package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/goerror"
)

const redisKeyPrefix = "otp:code:"

// Redis is a Store backed by a shared Redis instance. Expiry rides on the
// key TTL so records vanish without a sweeper.
type Redis struct {
	client *redis.Client
}

// NewRedis returns a Store using the given Redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Put(ctx context.Context, rec entity.OTPRecord, ttl time.Duration) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, redisKeyPrefix+rec.PhoneNumber, body, ttl).Err()
}

func (r *Redis) Get(ctx context.Context, phoneNumber string) (*entity.OTPRecord, error) {
	body, err := r.client.Get(ctx, redisKeyPrefix+phoneNumber).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec entity.OTPRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *Redis) Delete(ctx context.Context, phoneNumber string) error {
	return r.client.Del(ctx, redisKeyPrefix+phoneNumber).Err()
}
