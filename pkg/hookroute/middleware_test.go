package hookroute_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/hookroute/pkg/hookroute"
	"github.com/randalmurphal/hookroute/pkg/hookroute/event"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) hookroute.Middleware {
		return func(next hookroute.Callback) hookroute.Callback {
			return func(ctx context.Context, evt event.Event, args ...any) error {
				order = append(order, name+"-before")
				err := next(ctx, evt, args...)
				order = append(order, name+"-after")
				return err
			}
		}
	}

	cb := hookroute.Chain(func(context.Context, event.Event, ...any) error {
		order = append(order, "handler")
		return nil
	}, mark("outer"), mark("inner"))

	require.NoError(t, cb(context.Background(), newEvent("issue", nil)))
	assert.Equal(t, []string{"outer-before", "inner-before", "handler", "inner-after", "outer-after"}, order)
}

func TestChain_NoMiddleware(t *testing.T) {
	called := false
	cb := hookroute.Chain(func(context.Context, event.Event, ...any) error {
		called = true
		return nil
	})
	require.NoError(t, cb(context.Background(), newEvent("issue", nil)))
	assert.True(t, called)
}

func TestTimeout(t *testing.T) {
	t.Run("sets deadline", func(t *testing.T) {
		var hasDeadline bool
		cb := hookroute.Timeout(time.Minute)(func(ctx context.Context, _ event.Event, _ ...any) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		})
		require.NoError(t, cb(context.Background(), newEvent("issue", nil)))
		assert.True(t, hasDeadline)
	})

	t.Run("expires", func(t *testing.T) {
		cb := hookroute.Timeout(10*time.Millisecond)(func(ctx context.Context, _ event.Event, _ ...any) error {
			<-ctx.Done()
			return ctx.Err()
		})
		err := cb(context.Background(), newEvent("issue", nil))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("non-positive is a no-op", func(t *testing.T) {
		var hasDeadline bool
		cb := hookroute.Timeout(0)(func(ctx context.Context, _ event.Event, _ ...any) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		})
		require.NoError(t, cb(context.Background(), newEvent("issue", nil)))
		assert.False(t, hasDeadline)
	})
}

func TestRecover(t *testing.T) {
	t.Run("converts panic", func(t *testing.T) {
		cb := hookroute.Recover()(func(context.Context, event.Event, ...any) error {
			panic("kaboom")
		})

		err := cb(context.Background(), newEvent("issue", nil))
		require.Error(t, err)
		assert.ErrorIs(t, err, hookroute.ErrCallbackPanic)

		var panicErr *hookroute.CallbackPanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "kaboom", panicErr.Value)
		assert.Equal(t, "issue", panicErr.EventType)
		assert.Equal(t, "evt-1", panicErr.EventID)
	})

	t.Run("panic with error value", func(t *testing.T) {
		cause := errors.New("cause")
		cb := hookroute.Recover()(func(context.Context, event.Event, ...any) error {
			panic(cause)
		})
		err := cb(context.Background(), newEvent("issue", nil))
		assert.ErrorIs(t, err, hookroute.ErrCallbackPanic)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("passes errors through", func(t *testing.T) {
		boom := errors.New("boom")
		cb := hookroute.Recover()(func(context.Context, event.Event, ...any) error {
			return boom
		})
		assert.Same(t, boom, cb(context.Background(), newEvent("issue", nil)))
	})

	t.Run("aborts dispatch", func(t *testing.T) {
		rec := &recorder{}
		router := hookroute.New()
		router.MustAdd(hookroute.Chain(func(context.Context, event.Event, ...any) error {
			panic("kaboom")
		}, hookroute.Recover()), "issue")
		router.MustAdd(rec.cb("after"), "issue")

		err := router.Dispatch(context.Background(), newEvent("issue", nil))
		assert.ErrorIs(t, err, hookroute.ErrCallbackPanic)
		assert.Empty(t, rec.calls)
	})
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	boom := errors.New("boom")
	failing := hookroute.Logging(logger)(func(context.Context, event.Event, ...any) error {
		return boom
	})
	ok := hookroute.Logging(logger)(func(context.Context, event.Event, ...any) error {
		return nil
	})

	assert.Same(t, boom, failing(context.Background(), newEvent("issue", nil)))
	assert.Contains(t, buf.String(), `"msg":"callback failed"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"event_id":"evt-1"`)

	buf.Reset()
	require.NoError(t, ok(context.Background(), newEvent("push", nil)))
	assert.Contains(t, buf.String(), `"msg":"callback completed"`)
	assert.Contains(t, buf.String(), `"event_type":"push"`)
}
