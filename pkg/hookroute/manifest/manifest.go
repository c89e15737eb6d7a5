// Package manifest builds Routers from declarative route files.
//
// A manifest names handlers instead of referencing them, so the same program
// can be rewired without recompiling:
//
//	observability:
//	  metrics: true
//	  tracing: true
//	routes:
//	  - event: issue
//	    handler: audit
//	  - event: issue
//	    handler: triage
//	    when: {action: open}
//	    timeout: 10s
//	    recover: true
//
// Routes are registered in file order. Numbers in "when" match payload numbers
// regardless of whether YAML decoded them as integers.
package manifest

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/randalmurphal/hookroute/pkg/hookroute"
	"github.com/randalmurphal/hookroute/pkg/hookroute/config"
	"github.com/randalmurphal/hookroute/pkg/hookroute/observability"
	"github.com/randalmurphal/hookroute/pkg/hookroute/registry"
)

// Route is one manifest entry.
type Route struct {
	Event   string
	Handler string
	When    map[string]any
	Timeout time.Duration
	Recover bool
}

// Conditions returns the route's conditions ordered by attribute name.
func (r Route) Conditions() []hookroute.Condition {
	keys := make([]string, 0, len(r.When))
	for k := range r.When {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]hookroute.Condition, 0, len(keys))
	for _, k := range keys {
		conds = append(conds, hookroute.When(k, r.When[k]))
	}
	return conds
}

// Manifest is a parsed route file.
type Manifest struct {
	Metrics bool
	Tracing bool
	Routes  []Route
}

// Load reads a YAML or JSON manifest from path.
func Load(path string) (*Manifest, error) {
	cfg, err := config.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	return Parse(cfg)
}

// Read decodes a manifest from r, for manifests embedded in the program:
//
//	//go:embed routes.yaml
//	var routes []byte
//
//	m, err := manifest.Read(bytes.NewReader(routes), config.YAML)
func Read(r io.Reader, format config.Format) (*Manifest, error) {
	cfg, err := config.Read(r, format)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(cfg)
}

// Parse builds a Manifest from decoded configuration.
func Parse(cfg config.Config) (*Manifest, error) {
	obs := cfg.Sub("observability")
	m := &Manifest{
		Metrics: obs.Bool("metrics", false),
		Tracing: obs.Bool("tracing", false),
	}

	if !cfg.Has("routes") {
		return m, nil
	}
	items, ok := cfg.List("routes")
	if !ok {
		return nil, &RouteError{Index: -1, Message: "routes must be a list of mappings"}
	}

	for i, item := range items {
		route := Route{
			Event:   item.String("event", ""),
			Handler: item.String("handler", ""),
			Timeout: item.Duration("timeout", 0),
			Recover: item.Bool("recover", false),
		}
		if route.Event == "" {
			return nil, &RouteError{Index: i, Message: "missing event"}
		}
		if route.Handler == "" {
			return nil, &RouteError{Index: i, Event: route.Event, Message: "missing handler"}
		}
		if item.Has("when") {
			route.When = item.Map("when")
			if route.When == nil {
				return nil, &RouteError{Index: i, Event: route.Event, Message: "when must be a mapping"}
			}
		}
		m.Routes = append(m.Routes, route)
	}
	return m, nil
}

// Build registers every route on a new Router, resolving handler names in
// handlers. Options derived from the observability section come before opts,
// so opts win.
func (m *Manifest) Build(
	handlers *registry.Registry[string, hookroute.Callback],
	opts ...hookroute.Option,
) (*hookroute.Router, error) {
	var all []hookroute.Option
	if m.Metrics {
		all = append(all, hookroute.WithMetrics(observability.NewMetricsRecorder()))
	}
	if m.Tracing {
		all = append(all, hookroute.WithSpanManager(observability.NewSpanManager()))
	}
	router := hookroute.New(append(all, opts...)...)

	for i, route := range m.Routes {
		cb, ok := handlers.Get(route.Handler)
		if !ok {
			known := handlers.Keys()
			sort.Strings(known)
			return nil, &UnknownHandlerError{Index: i, Handler: route.Handler, Known: known}
		}

		var mws []hookroute.Middleware
		if route.Recover {
			mws = append(mws, hookroute.Recover())
		}
		if route.Timeout > 0 {
			mws = append(mws, hookroute.Timeout(route.Timeout))
		}

		if err := router.Add(hookroute.Chain(cb, mws...), route.Event, route.Conditions()...); err != nil {
			return nil, &RouteError{Index: i, Event: route.Event, Message: "register", Err: err}
		}
	}
	return router, nil
}
