// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signup

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/revuo/internal/platform/constants"
)

// RedisAttemptThrottle implements [AttemptThrottle] using Redis.
//
// The counter key carries a TTL equal to the attempt window; Redis expiry
// gives us the sliding window for free.
type RedisAttemptThrottle struct {
	client *redis.Client
}

// NewAttemptThrottle creates a new Redis-backed [AttemptThrottle].
func NewAttemptThrottle(client *redis.Client) *RedisAttemptThrottle {
	return &RedisAttemptThrottle{client: client}
}

/*
Failures returns the current failed-attempt count for a username.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - int: Failure count within the window (0 if no key exists)
  - error: Connectivity errors
*/
func (throttle *RedisAttemptThrottle) Failures(ctx context.Context, username string) (int, error) {
	key := constants.RedisPrefixCodeAttempts + username

	count, err := throttle.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_attempt_throttle_get_failed: %w", err)
	}

	return count, nil
}

/*
RecordFailure increments the failure counter for a username.

Description: The window TTL is set only when the key is created, so the
counter expires [constants.ConfirmationAttemptWindow] after the FIRST
failure, not the last one.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - error: Execution errors
*/
func (throttle *RedisAttemptThrottle) RecordFailure(ctx context.Context, username string) error {
	key := constants.RedisPrefixCodeAttempts + username

	count, err := throttle.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis_attempt_throttle_incr_failed: %w", err)
	}

	// First failure starts the window.
	if count == 1 {
		if err := throttle.client.Expire(ctx, key, constants.ConfirmationAttemptWindow).Err(); err != nil {
			return fmt.Errorf("redis_attempt_throttle_expire_failed: %w", err)
		}
	}

	return nil
}

/*
Reset clears the failure counter after a successful exchange.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - error: Deletion failures
*/
func (throttle *RedisAttemptThrottle) Reset(ctx context.Context, username string) error {
	key := constants.RedisPrefixCodeAttempts + username

	if err := throttle.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_attempt_throttle_reset_failed: %w", err)
	}
	return nil
}
