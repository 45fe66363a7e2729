package jobs

import (
	"context"
	"log"
	"time"

	"campus-scheduler/internal/config"
)

// Completer marks booked appointments whose end has passed as completed.
type Completer interface {
	CompleteEnded(ctx context.Context) (int64, error)
}

// StartCompletionJob runs svc.CompleteEnded every cfg.Interval until ctx is
// done. The returned channel is closed when the loop exits.
func StartCompletionJob(ctx context.Context, cfg config.JobsConfig, svc Completer) <-chan struct{} {
	done := make(chan struct{})
	if !cfg.CompleteEnabled {
		close(done)
		return done
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				n, err := svc.CompleteEnded(tickCtx)
				cancel()
				if err != nil {
					log.Printf("completion job error: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("completion job completed %d appointments", n)
				}
			}
		}
	}()
	return done
}
