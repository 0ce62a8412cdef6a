package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	scansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stationreg",
			Subsystem: "registry",
			Name:      "scans_total",
			Help:      "Number of run-directory scans performed.",
		},
	)
	scanErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stationreg",
			Subsystem: "registry",
			Name:      "scan_errors_total",
			Help:      "Number of run-directory scans that failed.",
		},
	)
	scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "stationreg",
			Subsystem: "registry",
			Name:      "scan_duration_seconds",
			Help:      "Duration of run-directory scans including liveness probes.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	stations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stationreg",
			Subsystem: "registry",
			Name:      "stations",
			Help:      "Stations found by the most recent scan.",
		},
	)
	stationsAlive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stationreg",
			Subsystem: "registry",
			Name:      "stations_alive",
			Help:      "Stations whose process was alive at the most recent scan.",
		},
	)
	registersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stationreg",
			Subsystem: "registry",
			Name:      "registers_total",
			Help:      "Number of run records written, per station.",
		}, []string{"station"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{scansTotal, scanErrors, scanDuration, stations, stationsAlive, registersTotal}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
// The caller is responsible for starting an HTTP server and wiring the route.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncScan() {
	if regOK.Load() {
		scansTotal.Inc()
	}
}

func IncScanError() {
	if regOK.Load() {
		scanErrors.Inc()
	}
}

func ObserveScanDuration(seconds float64) {
	if regOK.Load() {
		scanDuration.Observe(seconds)
	}
}

func SetStations(found, alive int) {
	if regOK.Load() {
		stations.Set(float64(found))
		stationsAlive.Set(float64(alive))
	}
}

func IncRegister(station string) {
	if regOK.Load() {
		registersTotal.WithLabelValues(station).Inc()
	}
}
