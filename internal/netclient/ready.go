package netclient

import (
	"context"
	"time"
)

// Status is the connectivity indicator spec.md §7 says should be
// surfaced to the UI layer without a modal dialog: the daemon itself
// never pops anything, it just keeps this value current for whoever
// polls it.
type Status struct {
	Connected bool
	Err       error
}

// WaitReady polls Health with exponential backoff (starting at 100ms,
// doubling, capped at 1s between attempts) until it succeeds or
// deadline elapses, whichever comes first. Grounded on
// server.rs's check_server_ready loop (100ms initial delay, doubling,
// capped at 1s, 15s max_wait).
func WaitReady(ctx context.Context, c Client, deadline time.Duration) Status {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	backoff := 100 * time.Millisecond
	const maxBackoff = time.Second

	var lastErr error
	for {
		if err := c.Health(ctx); err == nil {
			return Status{Connected: true}
		} else {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return Status{Connected: false, Err: lastErr}
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
