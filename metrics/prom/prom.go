package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/princess-entrapta/tagcache"
)

// Adapter implements tagcache.Metrics and exports Prometheus counters.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
//
// Tags are deliberately not a label: tag values are caller-controlled and
// unbounded, which would blow up series cardinality.
type Adapter struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	fills       *prometheus.CounterVec
	invalidates prometheus.Counter
	evicted     prometheus.Counter
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Lookups served from the cache",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Lookups that ran the computation",
			ConstLabels: constLabels,
		}),
		fills: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "fills_total",
				Help:        "Values written to the store, by fill mode",
				ConstLabels: constLabels,
			},
			[]string{"mode"},
		),
		invalidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "invalidations_total",
			Help:        "Invalidate calls",
			ConstLabels: constLabels,
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "invalidated_keys_total",
			Help:        "Keys evicted by tag invalidation",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.fills, a.invalidates, a.evicted)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Fill increments the fill counter with mode "computed" or "forced".
func (a *Adapter) Fill(forced bool) {
	mode := "computed"
	if forced {
		mode = "forced"
	}
	a.fills.WithLabelValues(mode).Inc()
}

// Invalidate counts one invalidation and the keys it evicted.
func (a *Adapter) Invalidate(_ string, keys int) {
	a.invalidates.Inc()
	a.evicted.Add(float64(keys))
}

var _ tagcache.Metrics = (*Adapter)(nil)
