package tagcache

// Metrics receives cache events. Implementations must be safe for
// concurrent use and cheap to call; every method sits on the request path.
// A Prometheus-backed implementation lives in metrics/prom.
type Metrics interface {
	// Hit is called when a lookup is served from the store.
	Hit()
	// Miss is called when a lookup finds nothing and a computation runs.
	Miss()
	// Fill is called after a computed value lands in the store. forced is
	// true for Refresh fills, which bypass the lookup.
	Fill(forced bool)
	// Invalidate is called once per Cache.Invalidate with the number of
	// keys the tag resolved to (0 for unknown tags).
	Invalidate(tag string, keys int)
}

// NopMetrics discards all events. It is the default.
type NopMetrics struct{}

var _ Metrics = NopMetrics{}

func (NopMetrics) Hit()                   {}
func (NopMetrics) Miss()                  {}
func (NopMetrics) Fill(bool)              {}
func (NopMetrics) Invalidate(string, int) {}
