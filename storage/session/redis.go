// Package sessionstore provides session.Keeper implementations: the durable
// side channel a session token is persisted to across client restarts.
package sessionstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/edusuite/darasa/core"
	"github.com/edusuite/darasa/core/session"
)

const keyPrefix = "darasa:session:"

type redisKeeper struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ session.Keeper = (*redisKeeper)(nil)

// NewRedisKeeper keeps the session token in Redis under the given client ID,
// expiring with the refresh window so a stale token cannot be restored.
func NewRedisKeeper(conf *core.Config, clientID string) session.Keeper {
	return &redisKeeper{
		client: redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		}),
		key: keyPrefix + clientID,
		ttl: conf.Server.JWTRefreshExpirationDelta,
	}
}

func (k *redisKeeper) Save(ctx context.Context, token string) error {
	if err := k.client.Set(ctx, k.key, token, k.ttl).Err(); err != nil {
		return errors.Wrap(err, "saving session token")
	}
	return nil
}

func (k *redisKeeper) Load(ctx context.Context) (string, error) {
	token, err := k.client.Get(ctx, k.key).Result()
	if err == redis.Nil {
		return "", session.ErrNoSession
	}
	if err != nil {
		return "", errors.Wrap(err, "loading session token")
	}
	return token, nil
}

func (k *redisKeeper) Clear(ctx context.Context) error {
	if err := k.client.Del(ctx, k.key).Err(); err != nil {
		return errors.Wrap(err, "clearing session token")
	}
	return nil
}
