package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Refreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trafkin_live_refreshes_total",
			Help: "Live status refresh cycles by trigger and outcome",
		},
		[]string{"trigger", "status"},
	)
	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trafkin_live_refresh_duration_seconds",
			Help:    "Fetch-and-resolve cycle time",
			Buckets: prometheus.DefBuckets,
		},
	)
	LiveHotSpots = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trafkin_live_hot_spots",
			Help: "Hot spots with a video currently playing",
		},
	)
)

func Register() {
	prometheus.MustRegister(Refreshes, RefreshDuration, LiveHotSpots)
}

// Serve exposes /metrics on its own port, away from the API listener.
func Serve(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			log.Printf("[Metrics] Server stopped: %v", err)
		}
	}()
}
