package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const releaseTimeout = 2 * time.Second

// Deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisOptions struct {
	Prefix        string
	TTL           time.Duration // upper bound on how long a crashed holder blocks the key
	RetryInterval time.Duration
	MaxRetries    uint64
}

// Redis reserves keys across instances with SET NX PX and a random token.
type Redis struct {
	client goredis.UniversalClient
	opts   RedisOptions
	logger *zap.Logger
}

func NewRedis(client goredis.UniversalClient, opts RedisOptions, logger *zap.Logger) *Redis {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 50 * time.Millisecond
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 40
	}
	return &Redis{client: client, opts: opts, logger: logger}
}

// Reserve polls until the key is acquired, returning ErrBusy once the retry
// budget is spent.
func (r *Redis) Reserve(ctx context.Context, key string) (func(), error) {
	name := r.opts.Prefix + key
	token := uuid.NewString()

	backoff := retry.WithMaxRetries(r.opts.MaxRetries, retry.NewConstant(r.opts.RetryInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ok, err := r.client.SetNX(ctx, name, token, r.opts.TTL).Result()
		if err != nil {
			return fmt.Errorf("acquire %s: %w", key, err)
		}
		if !ok {
			return retry.RetryableError(ErrBusy)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return nil, fmt.Errorf("reserve %s: %w", key, ErrBusy)
		}
		return nil, err
	}

	return sync.OnceFunc(func() {
		// the caller's context may already be canceled
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()

		if err := releaseScript.Run(ctx, r.client, []string{name}, token).Err(); err != nil {
			r.logger.Warn("Failed to release reservation",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}), nil
}
