package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collaborator call metrics, labelled by collaborator (embedder, index, llm).
var (
	CollaboratorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookchat",
			Name:      "collaborator_requests_total",
			Help:      "Total number of external collaborator calls",
		},
		[]string{"collaborator", "status"},
	)

	CollaboratorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookchat",
			Name:      "collaborator_request_duration_seconds",
			Help:      "External collaborator call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"collaborator"},
	)
)

var registered bool

// Register registers the collaborator metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(CollaboratorRequestsTotal)
	prometheus.MustRegister(CollaboratorRequestDuration)
	registered = true
}

// Observe records the outcome of one collaborator call.
func Observe(collaborator string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	CollaboratorRequestsTotal.WithLabelValues(collaborator, status).Inc()
	CollaboratorRequestDuration.WithLabelValues(collaborator).Observe(time.Since(start).Seconds())
}

// Serve exposes /metrics on addr until the server fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
