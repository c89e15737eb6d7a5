package hookroute

import (
	"context"
	"log/slog"
	"time"

	"github.com/randalmurphal/hookroute/pkg/hookroute/event"
	"github.com/randalmurphal/hookroute/pkg/hookroute/observability"
)

// Middleware wraps a callback. The Router never applies middleware itself;
// callers wrap callbacks before registering them.
type Middleware func(next Callback) Callback

// Chain applies middleware to cb, with the first middleware outermost.
func Chain(cb Callback, middleware ...Middleware) Callback {
	for i := len(middleware) - 1; i >= 0; i-- {
		cb = middleware[i](cb)
	}
	return cb
}

// Timeout runs the callback with a context that expires after d.
// Callbacks must observe ctx for the deadline to have any effect.
// A non-positive d leaves the callback unchanged.
func Timeout(d time.Duration) Middleware {
	return func(next Callback) Callback {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, evt event.Event, args ...any) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, evt, args...)
		}
	}
}

// Recover converts a callback panic into a *CallbackPanicError.
func Recover() Middleware {
	return func(next Callback) Callback {
		return func(ctx context.Context, evt event.Event, args ...any) (err error) {
			defer func() {
				if v := recover(); v != nil {
					err = &CallbackPanicError{
						EventType: evt.Type(),
						EventID:   evt.ID(),
						Value:     v,
					}
				}
			}()
			return next(ctx, evt, args...)
		}
	}
}

// Logging logs each callback outcome. The callback's error is returned
// unchanged.
func Logging(logger *slog.Logger) Middleware {
	return func(next Callback) Callback {
		return func(ctx context.Context, evt event.Event, args ...any) error {
			done := observability.TimedOperation()
			err := next(ctx, evt, args...)
			if err != nil {
				observability.LogCallbackError(logger, evt.Type(), evt.ID(), err, done())
			} else {
				observability.LogCallbackComplete(logger, evt.Type(), evt.ID(), done())
			}
			return err
		}
	}
}
