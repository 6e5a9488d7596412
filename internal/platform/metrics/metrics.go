package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts credit application submissions by outcome
	// (accepted, rejected, failed).
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fca_submissions_total",
		Help: "Credit application submissions by outcome",
	}, []string{"outcome"})

	// ValidationFailuresTotal counts rejected fields by step prefix so the
	// most error-prone parts of the form show up in dashboards.
	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fca_validation_failures_total",
		Help: "Server-side validation failures by form step",
	}, []string{"step"})

	// QuotesTotal counts quote requests received.
	QuotesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fca_quotes_total",
		Help: "Quote requests received",
	})

	// ReviewTransitionsTotal counts operator status transitions.
	ReviewTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fca_review_transitions_total",
		Help: "Application status transitions applied by operators",
	}, []string{"to"})
)
