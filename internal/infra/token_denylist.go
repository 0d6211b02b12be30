package infra

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocadoPrefix = "auth:revocado:"

// TokenDenylist keeps the jti of logged-out tokens in Redis until they would
// have expired anyway.
type TokenDenylist struct {
	rdb *redis.Client
}

func NewTokenDenylist(rdb *redis.Client) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

// Revocar stores jti for ttl. A non-positive ttl means the token is already
// expired and nothing is stored.
func (d *TokenDenylist) Revocar(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, revocadoPrefix+jti, 1, ttl).Err()
}

func (d *TokenDenylist) EstaRevocado(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := d.rdb.Get(ctx, revocadoPrefix+jti).Err()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}
