package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		roastRequests,
		personaOutcomes,
		jobPolls,
		stageLatencyMs,
	)
}

var (
	roastRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roast_requests_total",
			Help: "Inbound roast requests by input source (transcript|video|empty).",
		},
		[]string{"source"},
	)

	personaOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roast_persona_outcomes_total",
			Help: "Per-persona pipeline outcomes (ok|failed).",
		},
		[]string{"persona", "outcome"},
	)

	jobPolls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roast_job_polls_total",
			Help: "Status queries issued while waiting on generation jobs.",
		},
	)

	stageLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roast_stage_latency_ms",
			Help:    "Pipeline stage latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		},
		[]string{"stage"},
	)
)

func IncRoastRequest(source string) {
	roastRequests.WithLabelValues(source).Inc()
}

func IncPersonaOutcome(persona string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	personaOutcomes.WithLabelValues(persona, outcome).Inc()
}

func IncJobPoll() { jobPolls.Inc() }

// ObserveStage records elapsed milliseconds for one of
// generation|synthesis|hosting|transcription.
func ObserveStage(stage string, ms float64) {
	stageLatencyMs.WithLabelValues(stage).Observe(ms)
}
