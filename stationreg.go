// Package stationreg persists and discovers run records for running
// test-station instances. A station writes one JSON file, named after
// itself, into a shared run directory; other processes on the machine
// discover stations by scanning that directory and checking liveness
// through the recorded pid. Records are never deleted here; a dead
// station's file is kept for inspection.
package stationreg

import (
	"log/slog"
	"net/http"

	cfg "github.com/loykin/stationreg/internal/config"
	"github.com/loykin/stationreg/internal/detector"
	"github.com/loykin/stationreg/internal/history"
	hfactory "github.com/loykin/stationreg/internal/history/factory"
	"github.com/loykin/stationreg/internal/metrics"
	"github.com/loykin/stationreg/internal/rundata"
	iapi "github.com/loykin/stationreg/internal/server"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type RunData = rundata.RunData

type DecodeError = rundata.DecodeError

type Detector = detector.Detector

type HistoryEvent = history.Event

type HistorySink = history.Sink

// DefaultRunDir is the conventional shared run-state directory.
const DefaultRunDir = cfg.DefaultRunDir

// Decode parses the canonical JSON text form of a run record.
func Decode(data []byte) (RunData, error) { return rundata.Decode(data) }

// Load reads and decodes one run-record file.
func Load(path string) (RunData, error) { return rundata.Load(path) }

// Enumerate returns all run records directly under dir, sorted by
// station name. One unreadable record fails the whole scan.
func Enumerate(dir string) ([]RunData, error) { return rundata.Enumerate(dir) }

// NewPIDDetector returns a Detector probing the given process id.
func NewPIDDetector(pid int) Detector { return detector.PIDDetector{PID: pid} }

// NewHistorySink builds a history sink from a DSN
// (sqlite://, postgres://, clickhouse://, opensearch://).
func NewHistorySink(dsn string) (HistorySink, error) { return hfactory.NewSinkFromDSN(dsn) }

// LoadConfig reads a stationreg TOML config file.
func LoadConfig(path string) (cfg.Config, error) { return cfg.LoadConfig(path) }

// NewHTTPHandler returns the embeddable station discovery handler over
// runDir, mountable in any mux or framework.
func NewHTTPHandler(runDir, basePath string, logger *slog.Logger) http.Handler {
	return iapi.NewRouter(runDir, basePath, logger).Handler()
}

// NewHTTPServer starts a standalone discovery HTTP server.
func NewHTTPServer(addr, basePath, runDir string, logger *slog.Logger) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, runDir, logger)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// MetricsHandler serves Prometheus metrics for the default registry.
func MetricsHandler() http.Handler { return metrics.Handler() }
