package leadcapture

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Widget is the scheduling widget as seen from the flow: a global that may
// not have loaded yet and an inline-init entry point.
type Widget interface {
	IsReady() bool
	Init(container string, cfg SchedulerConfig) error
}

var (
	// ErrWidgetUnavailable means the widget never became ready within the
	// retry budget. The scheduling stage stays up but inert.
	ErrWidgetUnavailable = errors.New("scheduling widget unavailable")

	errWidgetNotReady = errors.New("scheduling widget not ready")
)

// InitResult reports how an init loop ended.
type InitResult struct {
	Attempts    int
	Initialized bool
	Err         error
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Interval
	b.MaxInterval = p.Interval
	b.Multiplier = 1
	b.RandomizationFactor = 0
	b.MaxElapsedTime = p.MaxElapsed
	b.Reset()

	var bo backoff.BackOff = b
	if p.MaxAttempts > 0 {
		bo = backoff.WithMaxRetries(bo, uint64(p.MaxAttempts-1))
	}
	return backoff.WithContext(bo, ctx)
}

// InitWithRetry polls widget.IsReady on the policy interval and calls Init
// exactly once when it reports ready. It gives up with ErrWidgetUnavailable
// once the policy is exhausted, or with ctx.Err() when cancelled.
func InitWithRetry(ctx context.Context, widget Widget, cfg SchedulerConfig, policy RetryPolicy) InitResult {
	var res InitResult

	if policy.InitialDelay > 0 {
		t := time.NewTimer(policy.InitialDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			res.Err = ctx.Err()
			return res
		case <-t.C:
		}
	}

	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		res.Attempts++
		if !widget.IsReady() {
			return errWidgetNotReady
		}
		// IsReady may have raced a cancellation.
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		if err := widget.Init(cfg.Container, cfg); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	err := backoff.Retry(op, policy.backOff(ctx))
	switch {
	case err == nil:
		res.Initialized = true
	case errors.Is(err, errWidgetNotReady):
		res.Err = ErrWidgetUnavailable
	default:
		res.Err = err
	}
	return res
}
