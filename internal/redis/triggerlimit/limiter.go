package triggerlimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"globorelay/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "relay:trigger:"

// Limiter is a fixed-window request counter per client, shared through Redis.
type Limiter struct {
	rdb    redis.Cmdable
	limit  int64
	window time.Duration
	now    func() time.Time
}

func New(rdb redis.Cmdable, limit int64, window time.Duration) *Limiter {
	return &Limiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *Limiter) key(clientID string) string {
	start := l.now().Truncate(l.window)
	return fmt.Sprintf("%s%s:%d", keyPrefix, clientID, start.Unix())
}

// Allow counts one request for clientID in the current window.
// On a Redis error the request is allowed and the error returned.
func (l *Limiter) Allow(ctx context.Context, clientID string) (bool, error) {
	key := l.key(clientID)

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("incr %s: %w", key, err)
	}
	if n == 1 {
		// first hit of the window owns the TTL
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return true, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return n <= l.limit, nil
}

// Middleware rejects over-limit requests with 429.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		ok, err := l.Allow(ginCtx.Request.Context(), ginCtx.ClientIP())
		if err != nil {
			zap.L().Warn("triggerlimit.allow", zap.Error(err))
		}
		if !ok {
			metrics.TriggerRejections.Inc()
			ginCtx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		ginCtx.Next()
	}
}
