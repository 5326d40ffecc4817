package retry

import (
	"context"
	"time"
)

// Do calls fn until it succeeds or attempts are exhausted, sleeping delay
// between attempts. The context bounds the whole loop including sleeps.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return DoIf(ctx, attempts, delay, fn, func(err error) bool {
		return err != nil
	})
}

// DoIf retries only while predicate returns true for the last error.
func DoIf(ctx context.Context, attempts int, delay time.Duration, fn func() error, predicate func(error) bool) (err error) {
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		if !predicate(err) || i >= attempts-1 {
			break
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return err
		}
	}
	return err
}

func sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
