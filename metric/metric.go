// Package metric holds the Prometheus collectors shared by the compiler,
// mapper, issuer and REST simulator.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without metrics in tests and one-shot CLI runs.
package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "semcred"

// Metrics contains the semcred collectors.
type Metrics struct {
	// Compiler metrics
	ShapesCompiled  *prometheus.CounterVec
	Artifacts       *prometheus.CounterVec
	Unresolved      prometheus.Counter
	CompileFailures *prometheus.CounterVec
	CompileDuration prometheus.Histogram

	// Mapper and issuer metrics
	LookupMisses      *prometheus.CounterVec
	CredentialsIssued *prometheus.CounterVec

	// Simulator metrics
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates the collectors. They are not registered.
func NewMetrics() *Metrics {
	return &Metrics{
		ShapesCompiled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "compiler",
				Name:      "shapes_compiled_total",
				Help:      "Total number of node shapes compiled",
			},
			[]string{"shape"},
		),

		Artifacts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "compiler",
				Name:      "artifacts_written_total",
				Help:      "Total number of artifacts written, by kind",
			},
			[]string{"kind"},
		),

		Unresolved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "compiler",
				Name:      "unresolved_references_total",
				Help:      "Total number of property references that did not resolve",
			},
		),

		CompileFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "compiler",
				Name:      "failures_total",
				Help:      "Total number of files that failed to compile, by error kind",
			},
			[]string{"kind"},
		),

		CompileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "compiler",
				Name:      "run_duration_seconds",
				Help:      "Duration of a compile run in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		LookupMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mapper",
				Name:      "lookup_misses_total",
				Help:      "Total number of master data lookups that found nothing",
			},
			[]string{"kind"},
		),

		CredentialsIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credential",
				Name:      "issued_total",
				Help:      "Total number of credentials issued",
			},
			[]string{"format", "type"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of simulator HTTP requests",
			},
			[]string{"route", "code"},
		),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ShapesCompiled,
		m.Artifacts,
		m.Unresolved,
		m.CompileFailures,
		m.CompileDuration,
		m.LookupMisses,
		m.CredentialsIssued,
		m.HTTPRequests,
	}
}

// ShapeCompiled records a compiled node shape.
func (m *Metrics) ShapeCompiled(shape string) {
	if m == nil {
		return
	}
	m.ShapesCompiled.WithLabelValues(shape).Inc()
}

// ArtifactWritten records a written artifact of the given kind.
func (m *Metrics) ArtifactWritten(kind string) {
	if m == nil {
		return
	}
	m.Artifacts.WithLabelValues(kind).Inc()
}

// UnresolvedReferences adds n unresolved property references.
func (m *Metrics) UnresolvedReferences(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Unresolved.Add(float64(n))
}

// CompileFailed records a file that failed to compile.
func (m *Metrics) CompileFailed(kind string) {
	if m == nil {
		return
	}
	m.CompileFailures.WithLabelValues(kind).Inc()
}

// ObserveCompile records the duration of a compile run.
func (m *Metrics) ObserveCompile(d time.Duration) {
	if m == nil {
		return
	}
	m.CompileDuration.Observe(d.Seconds())
}

// LookupMissed records a master data miss of the given kind.
func (m *Metrics) LookupMissed(kind string) {
	if m == nil {
		return
	}
	m.LookupMisses.WithLabelValues(kind).Inc()
}

// Issued records an issued credential.
func (m *Metrics) Issued(format, credentialType string) {
	if m == nil {
		return
	}
	m.CredentialsIssued.WithLabelValues(format, credentialType).Inc()
}

// Request records a served HTTP request.
func (m *Metrics) Request(route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
