package hookroute

import (
	"context"
	"log/slog"
	"time"

	"github.com/randalmurphal/hookroute/pkg/hookroute/event"
	"github.com/randalmurphal/hookroute/pkg/hookroute/observability"
)

// Callback handles a dispatched event. args are forwarded verbatim from
// Dispatch. A non-nil error aborts the remaining callbacks of the dispatch.
type Callback func(ctx context.Context, evt event.Event, args ...any) error

// Route describes one registration.
type Route struct {
	EventType string
	Condition *Condition // nil for routes on the event type alone
	Callback  Callback
}

// Router maps events to callbacks by event type and, optionally, one object
// attribute value.
//
// Router performs no locking. All registration must finish before the first
// Dispatch, or callers must synchronize Add and Dispatch themselves.
// Concurrent Dispatch calls on a fully registered Router are safe.
type Router struct {
	shallow *ordered[string, *callbackList]    // event type -> callbacks
	deep    *ordered[string, *attributeRoutes] // event type -> name -> value -> callbacks

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// Option configures a Router.
type Option func(*routerConfig)

type routerConfig struct {
	sources []*Router
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// From copies the registrations of sources into the new Router. Sources are
// replayed in the order given; for each source its event-type-only routes come
// first, then its attribute routes, each in registration order. The new Router
// shares no state with its sources.
func From(sources ...*Router) Option {
	return func(cfg *routerConfig) {
		cfg.sources = append(cfg.sources, sources...)
	}
}

// WithLogger enables debug logging of dispatches.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *routerConfig) {
		cfg.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(cfg *routerConfig) {
		cfg.metrics = m
	}
}

// WithSpanManager sets the span manager used for tracing.
func WithSpanManager(s observability.SpanManager) Option {
	return func(cfg *routerConfig) {
		cfg.spans = s
	}
}

// New creates a Router.
func New(opts ...Option) *Router {
	cfg := &routerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := &Router{
		shallow: newOrdered[string, *callbackList](),
		deep:    newOrdered[string, *attributeRoutes](),
		logger:  cfg.logger,
		metrics: cfg.metrics,
		spans:   cfg.spans,
	}
	if r.metrics == nil {
		r.metrics = observability.NoopMetrics{}
	}
	if r.spans == nil {
		r.spans = observability.NoopSpanManager{}
	}

	for _, src := range cfg.sources {
		if src == nil {
			continue
		}
		for _, route := range src.Routes() {
			var conds []Condition
			if route.Condition != nil {
				conds = []Condition{*route.Condition}
			}
			// Source registrations already passed validation.
			if err := r.Add(route.Callback, route.EventType, conds...); err != nil {
				panic("hookroute: replay of validated route failed: " + err.Error())
			}
		}
	}

	return r
}

// Merge returns a new Router holding the registrations of all sources.
// It is shorthand for New(From(sources...)).
func Merge(sources ...*Router) *Router {
	return New(From(sources...))
}

// Add registers cb for eventType. With one condition, cb only runs for events
// whose object attribute matches it. Numbers match across Go numeric types,
// so When("iid", 7) matches a JSON-decoded 7.0. More than one condition is rejected with
// a *TooManyConditionsError. Registering the same callback twice makes it run
// twice. On error the Router is unchanged.
func (r *Router) Add(cb Callback, eventType string, conds ...Condition) error {
	if len(conds) > 1 {
		return &TooManyConditionsError{EventType: eventType, Count: len(conds)}
	}
	if cb == nil {
		return &ArgumentError{Field: "callback", Message: "callback is nil"}
	}
	if eventType == "" {
		return &ArgumentError{Field: "event_type", Message: "event type is empty"}
	}

	if len(conds) == 0 {
		list := r.shallow.getOrCreate(eventType, newCallbackList)
		list.callbacks = append(list.callbacks, cb)
		return nil
	}

	cond := conds[0]
	if err := cond.validate(); err != nil {
		return err
	}
	attrs := r.deep.getOrCreate(eventType, newAttributeRoutes)
	values := attrs.getOrCreate(cond.Key, newValueRoutes)
	list := values.getOrCreate(normalize(cond.Value), newCallbackList)
	list.callbacks = append(list.callbacks, cb)
	return nil
}

// MustAdd is like Add but panics on error.
func (r *Router) MustAdd(cb Callback, eventType string, conds ...Condition) {
	if err := r.Add(cb, eventType, conds...); err != nil {
		panic("hookroute: " + err.Error())
	}
}

// Register returns a registrar that adds its callback for eventType and hands
// the callback back unchanged:
//
//	onOpen := router.Register("issue", hookroute.When("action", "open"))(func(...) error { ... })
//
// It panics if the arguments would be rejected by Add.
func (r *Router) Register(eventType string, conds ...Condition) func(Callback) Callback {
	return func(cb Callback) Callback {
		r.MustAdd(cb, eventType, conds...)
		return cb
	}
}

// Routes returns all registrations: event-type-only routes first, then
// attribute routes, each in registration order.
func (r *Router) Routes() []Route {
	var routes []Route
	r.shallow.each(func(eventType string, list *callbackList) {
		for _, cb := range list.callbacks {
			routes = append(routes, Route{EventType: eventType, Callback: cb})
		}
	})
	r.deep.each(func(eventType string, attrs *attributeRoutes) {
		attrs.each(func(key string, values *valueRoutes) {
			values.each(func(value any, list *callbackList) {
				for _, cb := range list.callbacks {
					routes = append(routes, Route{
						EventType: eventType,
						Condition: &Condition{Key: key, Value: value},
						Callback:  cb,
					})
				}
			})
		})
	})
	return routes
}

// Len returns the number of registrations.
func (r *Router) Len() int {
	n := 0
	r.shallow.each(func(_ string, list *callbackList) {
		n += len(list.callbacks)
	})
	r.deep.each(func(_ string, attrs *attributeRoutes) {
		attrs.each(func(_ string, values *valueRoutes) {
			values.each(func(_ any, list *callbackList) {
				n += len(list.callbacks)
			})
		})
	})
	return n
}

// Match returns the callbacks Dispatch would invoke for evt, in invocation
// order: event-type-only routes, then attribute routes in the order the
// attribute names were first registered.
func (r *Router) Match(evt event.Event) []Callback {
	var found []Callback
	eventType := evt.Type()

	if list, ok := r.shallow.get(eventType); ok {
		found = append(found, list.callbacks...)
	}

	attrs, ok := r.deep.get(eventType)
	if !ok {
		return found
	}
	objectAttrs := evt.ObjectAttributes()
	attrs.each(func(key string, values *valueRoutes) {
		v, present := objectAttrs[key]
		if !present || !isComparable(v) {
			return
		}
		if list, ok := values.get(normalize(v)); ok {
			found = append(found, list.callbacks...)
		}
	})
	return found
}

// Dispatch invokes every callback matching evt, one at a time, passing evt
// and args. The first callback error is returned as is and the remaining
// callbacks are skipped. An event with no matching routes is not an error.
//
// Dispatch applies no timeout, retry, or recovery; wrap callbacks (see
// Middleware) when that is wanted.
func (r *Router) Dispatch(ctx context.Context, evt event.Event, args ...any) error {
	callbacks := r.Match(evt)
	eventType, eventID := evt.Type(), evt.ID()

	start := time.Now()
	observability.LogDispatchStart(r.logger, eventType, eventID, len(callbacks))
	ctx, span := r.spans.StartDispatchSpan(ctx, eventType, eventID, len(callbacks))

	invoked := 0
	var err error
	for i, cb := range callbacks {
		err = r.invoke(ctx, cb, i, evt, args)
		invoked++
		if err != nil {
			break
		}
	}

	elapsed := time.Since(start)
	r.spans.EndSpanWithError(span, err)
	r.metrics.RecordDispatch(ctx, eventType, invoked, elapsed, err)
	if err != nil {
		return err
	}

	observability.LogDispatchComplete(r.logger, eventType, eventID, invoked,
		float64(elapsed.Microseconds())/1000)
	return nil
}

func (r *Router) invoke(ctx context.Context, cb Callback, index int, evt event.Event, args []any) error {
	ctx, span := r.spans.StartCallbackSpan(ctx, evt.Type(), index)
	start := time.Now()

	err := cb(ctx, evt, args...)

	r.metrics.RecordCallback(ctx, evt.Type(), time.Since(start), err)
	r.spans.EndSpanWithError(span, err)
	return err
}
