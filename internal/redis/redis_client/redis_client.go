package redis_client

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// NewRedisClient returns a client for the trigger limiter. The pool stays small:
// one INCR and at most one EXPIRE per trigger request.
func NewRedisClient(host string, port int) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	rc := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     16,
		DialTimeout:  pingTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancelFunc := context.WithTimeout(context.Background(), pingTimeout)
	defer cancelFunc()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		err = fmt.Errorf("redis %s unreachable: %w", addr, err)
		zap.L().Error("redis_connect", zap.Error(err))
		return nil, err
	}
	zap.L().Debug("redis_connected", zap.String("addr", addr))
	return rc, nil
}
