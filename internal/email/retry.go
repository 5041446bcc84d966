package email

import (
	"context"
	"fmt"
	"time"

	"saarthi_backend/platform/logger"

	gomail "github.com/wneessen/go-mail"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 2 * time.Second
)

// RetryingSender delivers a message through a TransportCache, retrying with
// a linear backoff. Every retry uses a freshly built transport.
type RetryingSender struct {
	cache       *TransportCache
	maxAttempts int
	backoff     time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	log         *logger.Logger
}

// NewRetryingSender creates a retrying sender. Non-positive maxAttempts falls
// back to three attempts.
func NewRetryingSender(cache *TransportCache, maxAttempts int, log *logger.Logger) *RetryingSender {
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	return &RetryingSender{
		cache:       cache,
		maxAttempts: maxAttempts,
		backoff:     defaultBackoff,
		sleep:       sleepContext,
		log:         log,
	}
}

// Deliver sends msg and returns the attempt number that succeeded.
func (r *RetryingSender) Deliver(ctx context.Context, msg *gomail.Msg) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		client, err := r.cache.GetOrRefresh(attempt > 1)
		if err == nil {
			err = client.DialAndSendWithContext(ctx, msg)
		}
		if err == nil {
			return attempt, nil
		}

		lastErr = err
		r.log.Warn("email attempt failed", "attempt", attempt, "error", err)

		if attempt < r.maxAttempts {
			if err := r.sleep(ctx, time.Duration(attempt)*r.backoff); err != nil {
				return attempt, err
			}
		}
	}
	return r.maxAttempts, fmt.Errorf("email failed after %d attempts: %w", r.maxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
