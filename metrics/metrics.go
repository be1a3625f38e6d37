package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	// RunsTotal counts finished report runs by outcome
	// ("succeeded"/"failed").
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "costnotifier_runs_total",
		Help: "Report runs by outcome.",
	}, []string{"outcome"})

	// RunDuration observes the wall time of successful report runs.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "costnotifier_run_duration_seconds",
		Help:    "Wall time of a full report run.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)

// Serve exposes liveness and Prometheus metrics for the scheduler process.
// The returned server is already listening; the caller shuts it down.
func Serve(addr string, log *logrus.Logger) *http.Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	return server
}
