package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"hotel_search/internal/app"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "http_requests_total", Help: "HTTP requests, by listing strategy."},
		[]string{"route", "method", "strategy", "status"}, // strategy is "none" off the listing route
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotels", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds, by listing strategy.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "strategy"},
	)
	StageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotels", Name: "stage_duration_seconds",
			Help:    "Duration of each listing stage, per strategy.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"strategy", "stage"},
	)
	Rejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "rejections_total", Help: "Hotels left out of a listing."},
		[]string{"strategy", "reason"}, // reason: no_qualifying_room|out_of_radius
	)
)

// Serve exposes reg on its own listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, StageLatency, Rejections)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method, strategy string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strategy, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, strategy).Observe(dur.Seconds())
}

// StageRecorder feeds strategy timings and rejections into Prometheus.
type StageRecorder struct{}

var _ app.Recorder = StageRecorder{}

func NewStageRecorder() StageRecorder { return StageRecorder{} }

func (StageRecorder) ObserveStage(strategy, stage string, d time.Duration) {
	StageLatency.WithLabelValues(strategy, stage).Observe(d.Seconds())
}

func (StageRecorder) ObserveRejection(strategy string, reason app.RejectReason) {
	Rejections.WithLabelValues(strategy, reason.String()).Inc()
}
