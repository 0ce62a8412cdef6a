package server

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loykin/stationreg/internal/history"
	"github.com/loykin/stationreg/internal/metrics"
	"github.com/loykin/stationreg/internal/rundata"
)

// Router provides embeddable HTTP handlers for station discovery.
// Endpoints:
//   GET {basePath}/stations        query: alive=true to filter to live stations
//   GET {basePath}/stations/:name  single record, 404 when no such file
//   GET {basePath}/healthz
// Every request re-scans the run directory; readers are expected to
// re-poll, there is no cache and no watch loop.
// basePath may be empty or start with '/'; no trailing slash.

type Router struct {
	runDir   string
	basePath string
	logger   *slog.Logger
	sink     history.Sink // optional scan-observation sink
}

// NewRouter constructs a new Router over the given run directory.
// Example basePath: "/api" results in /api/stations, /api/healthz.
func NewRouter(runDir, basePath string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{runDir: runDir, basePath: sanitizeBase(basePath), logger: logger}
}

// SetHistorySink attaches a sink that receives one observed event per
// record on every successful scan. Sink errors are logged, not surfaced.
func (r *Router) SetHistorySink(s history.Sink) { r.sink = s }

// Handler returns an http.Handler powered by gin that can be mounted in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.GET("/stations", r.handleStations)
	group.GET("/stations/:name", r.handleStation)
	group.GET("/healthz", r.handleHealthz)
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
func NewServer(addr, basePath, runDir string, logger *slog.Logger) (*http.Server, error) {
	r := NewRouter(runDir, basePath, logger)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server, nil
}

// --- Handlers ---

type errorResp struct {
	Error string `json:"error"`
}

// StationStatus is one discovered record annotated with liveness.
type StationStatus struct {
	rundata.RunData
	Alive bool `json:"alive"`
}

func (r *Router) scan(ctx context.Context) ([]StationStatus, error) {
	start := time.Now()
	metrics.IncScan()
	records, err := rundata.Enumerate(r.runDir)
	if err != nil {
		metrics.IncScanError()
		return nil, err
	}
	statuses := make([]StationStatus, 0, len(records))
	alive := 0
	now := time.Now().UTC()
	for _, rec := range records {
		st := StationStatus{RunData: rec, Alive: rec.IsAlive()}
		if st.Alive {
			alive++
		}
		statuses = append(statuses, st)
		if r.sink != nil {
			e := history.Event{
				Type:       history.EventObserved,
				OccurredAt: now,
				Record:     rec,
				Alive:      st.Alive,
			}
			if err := r.sink.Send(ctx, e); err != nil {
				r.logger.Warn("history sink send failed", "station", rec.StationName, "error", err)
			}
		}
	}
	metrics.SetStations(len(records), alive)
	metrics.ObserveScanDuration(time.Since(start).Seconds())
	return statuses, nil
}

func (r *Router) handleStations(c *gin.Context) {
	statuses, err := r.scan(c.Request.Context())
	if err != nil {
		r.logger.Error("run directory scan failed", "dir", r.runDir, "error", err)
		c.JSON(http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	if c.Query("alive") == "true" {
		filtered := statuses[:0]
		for _, st := range statuses {
			if st.Alive {
				filtered = append(filtered, st)
			}
		}
		statuses = filtered
	}
	c.JSON(http.StatusOK, statuses)
}

func (r *Router) handleStation(c *gin.Context) {
	name := c.Param("name")
	if !isSafeName(name) {
		c.JSON(http.StatusBadRequest, errorResp{Error: "invalid station name: allowed [A-Za-z0-9._-] and no '..' or path separators"})
		return
	}
	rec, err := rundata.Load(filepath.Join(r.runDir, name))
	if err != nil {
		if isNotExist(err) {
			c.JSON(http.StatusNotFound, errorResp{Error: "no such station: " + name})
			return
		}
		r.logger.Error("load run record failed", "station", name, "error", err)
		c.JSON(http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, StationStatus{RunData: rec, Alive: rec.IsAlive()})
}

func (r *Router) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
