package hookroute

// ordered is a map that remembers key insertion order. Dispatch order and
// composition replay both depend on it.
type ordered[K comparable, V any] struct {
	keys []K
	m    map[K]V
}

func newOrdered[K comparable, V any]() *ordered[K, V] {
	return &ordered[K, V]{m: make(map[K]V)}
}

func (o *ordered[K, V]) get(k K) (V, bool) {
	v, ok := o.m[k]
	return v, ok
}

// getOrCreate returns the value for k, storing mk() first if absent.
func (o *ordered[K, V]) getOrCreate(k K, mk func() V) V {
	if v, ok := o.m[k]; ok {
		return v
	}
	v := mk()
	o.keys = append(o.keys, k)
	o.m[k] = v
	return v
}

func (o *ordered[K, V]) each(fn func(K, V)) {
	for _, k := range o.keys {
		fn(k, o.m[k])
	}
}

type callbackList struct {
	callbacks []Callback
}

func newCallbackList() *callbackList {
	return &callbackList{}
}

// valueRoutes maps attribute value -> callbacks.
type valueRoutes = ordered[any, *callbackList]

// attributeRoutes maps attribute name -> attribute value -> callbacks.
type attributeRoutes = ordered[string, *valueRoutes]

func newValueRoutes() *valueRoutes {
	return newOrdered[any, *callbackList]()
}

func newAttributeRoutes() *attributeRoutes {
	return newOrdered[string, *valueRoutes]()
}
