package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/loykin/stationreg/internal/history"
	"github.com/loykin/stationreg/internal/history/factory"
	"github.com/loykin/stationreg/internal/metrics"
	"github.com/loykin/stationreg/internal/rundata"
	"github.com/loykin/stationreg/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type stationStatus struct {
	rundata.RunData
	Alive bool `json:"alive"`
}

func newListCmd(g *GlobalFlags) *cobra.Command {
	f := &ListFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List run records in the run directory with liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(g)
			if err != nil {
				return err
			}
			records, err := rundata.Enumerate(cfg.RunDir)
			if err != nil {
				return fmt.Errorf("scan %s: %w", cfg.RunDir, err)
			}
			statuses := make([]stationStatus, 0, len(records))
			for _, rec := range records {
				st := stationStatus{RunData: rec, Alive: rec.IsAlive()}
				if f.AliveOnly && !st.Alive {
					continue
				}
				statuses = append(statuses, st)
			}
			if f.JSON {
				return printJSON(cmd, statuses)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "STATION\tPID\tALIVE\tCELLS\tTEST\tVERSION\tENDPOINT")
			for _, st := range statuses {
				_, _ = fmt.Fprintf(w, "%s\t%d\t%v\t%d\t%s\t%s\t%s:%d\n",
					st.StationName, st.PID, st.Alive, st.CellCount,
					st.TestType, st.TestVersion, st.HTTPHost, st.HTTPPort)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&f.JSON, "json", false, "output JSON instead of a table")
	cmd.Flags().BoolVar(&f.AliveOnly, "alive", false, "only show stations whose process is alive")
	return cmd
}

func newShowCmd(g *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <station>",
		Short: "Show one station's run record and liveness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(g)
			if err != nil {
				return err
			}
			rec, err := rundata.Load(filepath.Join(cfg.RunDir, args[0]))
			if err != nil {
				return err
			}
			return printJSON(cmd, stationStatus{RunData: rec, Alive: rec.IsAlive()})
		},
	}
}

func newRegisterCmd(g *GlobalFlags) *cobra.Command {
	f := &RegisterFlags{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Write a run record for a station into the run directory",
		Long: "register writes dir/<name> with the canonical record encoding,\n" +
			"overwriting any previous record for the station. The file is never\n" +
			"removed by stationreg; readers detect stale records via liveness.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(g)
			if err != nil {
				return err
			}
			if f.Name == "" {
				return fmt.Errorf("--name is required")
			}
			rec := rundata.RunData{
				StationName: f.Name,
				CellCount:   f.CellCount,
				TestType:    f.TestType,
				TestVersion: f.TestVersion,
				HTTPHost:    f.HTTPHost,
				HTTPPort:    f.HTTPPort,
				PID:         f.PID,
			}
			if rec.PID == 0 {
				rec.PID = os.Getpid()
			}
			path, err := rec.Save(cfg.RunDir)
			if err != nil {
				return fmt.Errorf("save run record: %w", err)
			}
			metrics.IncRegister(rec.StationName)
			if cfg.HistoryDSN != "" {
				if err := sendRegisterEvent(cmd.Context(), cfg.HistoryDSN, rec); err != nil {
					return fmt.Errorf("history sink: %w", err)
				}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Name, "name", "", "unique station name (also the filename)")
	cmd.Flags().IntVar(&f.CellCount, "cells", 1, "number of test cells on the station")
	cmd.Flags().StringVar(&f.TestType, "test-type", "", "logical test identifier")
	cmd.Flags().StringVar(&f.TestVersion, "test-version", "", "version string of the test")
	cmd.Flags().StringVar(&f.HTTPHost, "http-host", "localhost", "hostname of the station HTTP interface")
	cmd.Flags().IntVar(&f.HTTPPort, "http-port", 0, "port of the station HTTP interface")
	cmd.Flags().IntVar(&f.PID, "pid", 0, "process id to record (default: this process)")
	return cmd
}

func sendRegisterEvent(ctx context.Context, dsn string, rec rundata.RunData) error {
	sink, err := factory.NewSinkFromDSN(dsn)
	if err != nil {
		return err
	}
	defer closeSink(sink)
	return sink.Send(ctx, history.Event{
		Type:       history.EventRegister,
		OccurredAt: time.Now().UTC(),
		Record:     rec,
		Alive:      true,
	})
}

func closeSink(s history.Sink) {
	if closer, ok := s.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

func newServeCmd(g *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the station discovery HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(g)
			if err != nil {
				return err
			}
			log, closer := cfg.LoggerConfig().New()
			if closer != nil {
				defer func() { _ = closer.Close() }()
			}

			router := server.NewRouter(cfg.RunDir, cfg.Server.BasePath, log)
			if cfg.HistoryDSN != "" {
				sink, err := factory.NewSinkFromDSN(cfg.HistoryDSN)
				if err != nil {
					return fmt.Errorf("history sink: %w", err)
				}
				defer closeSink(sink)
				router.SetHistorySink(sink)
			}

			mux := http.NewServeMux()
			mux.Handle("/", router.Handler())
			if cfg.Server.Metrics {
				if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
					return err
				}
				mux.Handle("/metrics", metrics.Handler())
			}

			srv := &http.Server{
				Addr:              cfg.Server.Listen,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			log.Info("stationreg serving", "addr", cfg.Server.Listen, "dir", cfg.RunDir)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				log.Info("shutting down", "signal", sig.String())
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
