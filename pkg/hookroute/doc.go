/*
Package hookroute routes webhook events to registered callbacks.

# Overview

A Router keeps two route tables. Event-type routes match every event of a
type. Attribute routes additionally require one object attribute of the event
to equal a registered value:

	router := hookroute.New()

	// Every "issue" event.
	router.MustAdd(audit, "issue")

	// Only issues whose object_attributes.action is "open".
	router.MustAdd(triage, "issue", hookroute.When("action", "open"))

	err := router.Dispatch(ctx, evt, client)

Dispatch invokes the event-type routes first, then the attribute routes, in
registration order. Callbacks run one after another; the first error stops
the dispatch and is returned unchanged. Events nobody registered for are
silently ignored.

At most one condition is allowed per registration. Passing more returns a
*TooManyConditionsError and registers nothing.

# Registrars

Register is sugar over Add that returns the callback, so a package-level
variable can both name and register a handler:

	var onMerge = router.Register("merge_request", hookroute.When("action", "merge"))(
	    func(ctx context.Context, evt event.Event, args ...any) error {
	        ...
	    })

Register panics where Add would return an error.

# Composition

Routers built by separate packages can be combined:

	app := hookroute.Merge(issues.Router, pipelines.Router)

The new Router replays each source's registrations in order (per source,
event-type routes before attribute routes) and shares no state with them.

# Middleware

The Router does not time out, retry, recover, or log failing callbacks.
Wrap callbacks to get that behavior:

	cb := hookroute.Chain(handler,
	    hookroute.Recover(),
	    hookroute.Logging(logger),
	    hookroute.Timeout(10*time.Second),
	)

# Observability

WithLogger, WithMetrics and WithSpanManager attach the observability package's
slog and OpenTelemetry instrumentation to Dispatch.

# Concurrency

Router has no internal locking. Finish registration before dispatching, or
synchronize externally. Concurrent Dispatch calls on a fully built Router are
safe and may interleave freely.
*/
package hookroute
