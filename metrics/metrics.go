package metrics

import (
	"sort"
	"time"

	"github.com/achilleasa/octant/tracer"
	"github.com/achilleasa/octant/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const (
	tracerLabel = "tracer"
	resultLabel = "result"

	resultHit  = "hit"
	resultMiss = "miss"

	queriesMetric = "octant_ray_queries"
	latencyMetric = "octant_ray_query_latency"
)

// Collector owns the ray query metrics registered with a single registry.
type Collector struct {
	queries *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// Create a collector and register its metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: queriesMetric,
			Help: "The number of ray queries.",
		}, []string{
			tracerLabel,
			resultLabel,
		}),

		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    latencyMetric,
			Help:    "The time to answer a ray query.",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
		}, []string{
			tracerLabel,
		}),
	}
}

// Wrap tr so that every query is counted and timed.
func (c *Collector) Instrument(tr tracer.Tracer) tracer.Tracer {
	id := tr.Id()
	return &tracerWithMetrics{
		Tracer: tr,
		hits: c.queries.With(prometheus.Labels{
			tracerLabel: id,
			resultLabel: resultHit,
		}),
		misses: c.queries.With(prometheus.Labels{
			tracerLabel: id,
			resultLabel: resultMiss,
		}),
		latency: c.latency.With(prometheus.Labels{
			tracerLabel: id,
		}),
	}
}

type tracerWithMetrics struct {
	tracer.Tracer

	hits    prometheus.Counter
	misses  prometheus.Counter
	latency prometheus.Observer
}

func (t *tracerWithMetrics) Trace(origin, dir types.Vec3) (tracer.Hit, bool) {
	start := time.Now()
	hit, ok := t.Tracer.Trace(origin, dir)
	t.latency.Observe(time.Since(start).Seconds())

	if ok {
		t.hits.Inc()
	} else {
		t.misses.Inc()
	}
	return hit, ok
}

// Aggregated query metrics for one tracer.
type Row struct {
	Tracer      string
	Queries     uint64
	Hits        uint64
	MeanLatency time.Duration
}

// Summarize the collected metrics per tracer, sorted by tracer id.
func (c *Collector) Summary(g prometheus.Gatherer) ([]Row, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*Row)
	row := func(m *dto.Metric) *Row {
		var id string
		for _, pair := range m.GetLabel() {
			if pair.GetName() == tracerLabel {
				id = pair.GetValue()
			}
		}
		if rows[id] == nil {
			rows[id] = &Row{Tracer: id}
		}
		return rows[id]
	}

	for _, family := range families {
		switch family.GetName() {
		case queriesMetric:
			for _, m := range family.GetMetric() {
				r := row(m)
				count := uint64(m.GetCounter().GetValue())
				r.Queries += count
				for _, pair := range m.GetLabel() {
					if pair.GetName() == resultLabel && pair.GetValue() == resultHit {
						r.Hits += count
					}
				}
			}
		case latencyMetric:
			for _, m := range family.GetMetric() {
				h := m.GetHistogram()
				if h.GetSampleCount() == 0 {
					continue
				}
				mean := h.GetSampleSum() / float64(h.GetSampleCount())
				row(m).MeanLatency = time.Duration(mean * float64(time.Second))
			}
		}
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Tracer < out[j].Tracer
	})
	return out, nil
}
