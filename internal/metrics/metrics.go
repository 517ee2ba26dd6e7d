// Package metrics collects Prometheus metrics for the tracker and exposes them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	RecordUserCreated()
	RecordExerciseRecorded(durationMinutes int)
	RecordLogQuery(filtered bool, entries int)
	RecordHTTPRequest(method string, status int, elapsed time.Duration)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	usersCreated      prometheus.Counter
	exercisesRecorded prometheus.Counter
	exerciseMinutes   prometheus.Counter
	logQueries        *prometheus.CounterVec
	logEntries        prometheus.Histogram
	httpRequests      *prometheus.CounterVec
	httpLatency       prometheus.Histogram
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_users_created_total",
			Help: "Number of users created.",
		}),
		exercisesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_exercises_recorded_total",
			Help: "Number of exercises recorded.",
		}),
		exerciseMinutes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_exercise_minutes_total",
			Help: "Sum of recorded exercise durations in minutes.",
		}),
		logQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_log_queries_total",
			Help: "Number of log queries, by whether a filter was applied.",
		}, []string{"filtered"}),
		logEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_log_entries_returned",
			Help:    "Entries returned per log query.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_http_requests_total",
			Help: "HTTP responses by method and status code.",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.usersCreated,
		c.exercisesRecorded,
		c.exerciseMinutes,
		c.logQueries,
		c.logEntries,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

func (c *Collector) RecordUserCreated() {
	c.usersCreated.Inc()
}

func (c *Collector) RecordExerciseRecorded(durationMinutes int) {
	c.exercisesRecorded.Inc()
	c.exerciseMinutes.Add(float64(durationMinutes))
}

func (c *Collector) RecordLogQuery(filtered bool, entries int) {
	c.logQueries.WithLabelValues(strconv.FormatBool(filtered)).Inc()
	c.logEntries.Observe(float64(entries))
}

func (c *Collector) RecordHTTPRequest(method string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpLatency.Observe(elapsed.Seconds())
}

// Nop discards everything. Useful in tests and when metrics are disabled.
type Nop struct{}

func (Nop) RecordUserCreated()                           {}
func (Nop) RecordExerciseRecorded(int)                   {}
func (Nop) RecordLogQuery(bool, int)                     {}
func (Nop) RecordHTTPRequest(string, int, time.Duration) {}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
