package prometheus

import (
	"strconv"
	"time"
)

// PipelineMetrics are the metrics the analysis service, simulator and HTTP
// layer report. All methods are safe on a nil receiver, which records
// nothing.
type PipelineMetrics struct {
	AnalysisTotal         CounterVec
	StageDuration         HistogramVec
	GapOverallScore       HistogramVec
	CompletionProbability HistogramVec
	SchemeMatchesTotal    CounterVec
	SimulationRunsTotal   CounterVec
	ActiveSessions        GaugeVec
	EventsTotal           CounterVec

	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec
}

// Buckets.
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultStageDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	PercentBuckets              = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// Analysis outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusTimeout = "timeout"
)

// NewPipelineMetrics registers every pipeline metric on collector.
func NewPipelineMetrics(collector MetricsCollector) *PipelineMetrics {
	return &PipelineMetrics{
		AnalysisTotal:         collector.RegisterCounter("analysis_total", "Document analyses by outcome", "status"),
		StageDuration:         collector.RegisterHistogram("stage_duration_seconds", "Analysis stage duration", DefaultStageDurationBuckets, "stage"),
		GapOverallScore:       collector.RegisterHistogram("gap_overall_score", "Gap analysis overall score", PercentBuckets),
		CompletionProbability: collector.RegisterHistogram("completion_probability", "Completion probability in percent", PercentBuckets),
		SchemeMatchesTotal:    collector.RegisterCounter("scheme_matches_total", "Scheme references by verification kind", "kind"),
		SimulationRunsTotal:   collector.RegisterCounter("simulation_runs_total", "What-if scenario runs", "scenario"),
		ActiveSessions:        collector.RegisterGauge("active_sessions", "Open simulation sessions"),
		EventsTotal:           collector.RegisterCounter("events_total", "Analysis events published or consumed", "topic", "result"),

		HTTPRequestsTotal:   collector.RegisterCounter("http_requests_total", "HTTP requests", "method", "path", "status_code"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path"),
		HTTPActiveRequests:  collector.RegisterGauge("http_active_requests", "In-flight HTTP requests"),
	}
}

// ObserveStage records one stage duration.
func (m *PipelineMetrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordAnalysis counts one analysis and, on success, its headline scores.
func (m *PipelineMetrics) RecordAnalysis(status string, gapScore, probability float64) {
	if m == nil {
		return
	}
	m.AnalysisTotal.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		m.GapOverallScore.WithLabelValues().Observe(gapScore)
		m.CompletionProbability.WithLabelValues().Observe(probability)
	}
}

// RecordSchemeMatches adds n references of the given kind.
func (m *PipelineMetrics) RecordSchemeMatches(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SchemeMatchesTotal.WithLabelValues(kind).Add(float64(n))
}

// RecordSimulation counts a scenario run. Unnamed scenarios count as custom.
func (m *PipelineMetrics) RecordSimulation(scenario string) {
	if m == nil {
		return
	}
	if scenario == "" {
		scenario = "custom"
	}
	m.SimulationRunsTotal.WithLabelValues(scenario).Inc()
}

// SessionOpened and SessionClosed track the active session gauge.
func (m *PipelineMetrics) SessionOpened() {
	if m != nil {
		m.ActiveSessions.WithLabelValues().Inc()
	}
}

func (m *PipelineMetrics) SessionClosed() {
	if m != nil {
		m.ActiveSessions.WithLabelValues().Dec()
	}
}

// RecordEvent counts a message on topic with result "published", "consumed"
// or "failed".
func (m *PipelineMetrics) RecordEvent(topic, result string) {
	if m == nil {
		return
	}
	m.EventsTotal.WithLabelValues(topic, result).Inc()
}

// RecordHTTPRequest records one served request.
func (m *PipelineMetrics) RecordHTTPRequest(method, path string, statusCode int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

//Personal.AI order the ending
