package prometheus

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/slok/appforge/internal/metrics"
)

const prefix = "appforge"

// Config is the configuration of the Prometheus recorder.
type Config struct {
	Registerer prometheus.Registerer
	// DurationBuckets are the histogram buckets for build durations in seconds.
	DurationBuckets []float64
}

func (c *Config) defaults() {
	if c.Registerer == nil {
		c.Registerer = prometheus.DefaultRegisterer
	}
	if len(c.DurationBuckets) == 0 {
		// 500ms ticks with an average 7.5 increment finish in ~7s.
		c.DurationBuckets = prometheus.ExponentialBuckets(0.5, 2, 8) // 0.5s to ~64s
	}
}

type recorder struct {
	buildTicks    prometheus.Counter
	runningBuilds prometheus.Gauge
	buildDuration *prometheus.HistogramVec
}

// NewRecorder returns a metrics.Recorder backed by Prometheus.
func NewRecorder(cfg Config) (metrics.Recorder, error) {
	cfg.defaults()

	r := &recorder{
		buildTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: prefix,
			Subsystem: "build",
			Name:      "ticks_total",
			Help:      "Total number of processed build simulation ticks.",
		}),
		runningBuilds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: prefix,
			Subsystem: "build",
			Name:      "running",
			Help:      "Number of build simulations currently running.",
		}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: prefix,
			Subsystem: "build",
			Name:      "duration_seconds",
			Help:      "Duration of finished build simulations.",
			Buckets:   cfg.DurationBuckets,
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{r.buildTicks, r.runningBuilds, r.buildDuration} {
		if err := cfg.Registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *recorder) IncBuildTick(_ context.Context) { r.buildTicks.Inc() }

func (r *recorder) AddRunningBuilds(_ context.Context, delta int) {
	r.runningBuilds.Add(float64(delta))
}

func (r *recorder) ObserveBuildFinished(_ context.Context, result metrics.BuildResult, duration time.Duration) {
	r.buildDuration.WithLabelValues(string(result)).Observe(duration.Seconds())
}
