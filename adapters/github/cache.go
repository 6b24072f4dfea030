package github

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/application/service"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

const cacheKeyPrefix = "github:repos:"

type cachedGateway struct {
	next   service.RepoGateway
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedGateway serves repeated lookups from Redis. Only successful
// answers are cached, and a Redis outage falls through to next.
func NewCachedGateway(next service.RepoGateway, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) service.RepoGateway {
	return &cachedGateway{next: next, rdb: rdb, ttl: ttl, logger: log}
}

func (g *cachedGateway) FetchRepos(ctx context.Context, username string) (json.RawMessage, error) {
	key := cacheKeyPrefix + strings.ToLower(username)

	cached, err := g.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		return json.RawMessage(cached), nil
	case !errors.Is(err, redis.Nil):
		g.logger.Warn("Redis read failed, bypass cache", zap.String("key", key), zap.Error(err))
	}

	body, err := g.next.FetchRepos(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := g.rdb.Set(ctx, key, []byte(body), g.ttl).Err(); err != nil {
		g.logger.Warn("Redis write failed", zap.String("key", key), zap.Error(err))
	}
	return body, nil
}
