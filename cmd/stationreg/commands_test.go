package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/loykin/stationreg/internal/rundata"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := buildRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRegisterThenList(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "register",
		"--dir", dir,
		"--name", "station-01",
		"--cells", "4",
		"--test-type", "acceptance",
		"--test-version", "1.0.3",
		"--http-port", "8080",
	)
	if err != nil {
		t.Fatalf("register: %v\n%s", err, out)
	}
	wantPath := filepath.Join(dir, "station-01")
	if strings.TrimSpace(out) != wantPath {
		t.Fatalf("register output %q, want %q", strings.TrimSpace(out), wantPath)
	}

	rec, err := rundata.Load(wantPath)
	if err != nil {
		t.Fatalf("load written record: %v", err)
	}
	if rec.PID != os.Getpid() {
		t.Fatalf("pid should default to this process, got %d", rec.PID)
	}
	if rec.HTTPHost != "localhost" {
		t.Fatalf("http_host should default to localhost, got %q", rec.HTTPHost)
	}

	out, err = runCLI(t, "list", "--dir", dir, "--json")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	var statuses []stationStatus
	if err := json.Unmarshal([]byte(out), &statuses); err != nil {
		t.Fatalf("parse list output: %v\n%s", err, out)
	}
	if len(statuses) != 1 || statuses[0].StationName != "station-01" || !statuses[0].Alive {
		t.Fatalf("unexpected list output: %+v", statuses)
	}
}

func TestListAliveFilter(t *testing.T) {
	dir := t.TempDir()
	for name, pid := range map[string]int{"live": os.Getpid(), "dead": 1 << 30} {
		_, err := runCLI(t, "register", "--dir", dir, "--name", name,
			"--pid", strconv.Itoa(pid), "--http-port", "80")
		if err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	out, err := runCLI(t, "list", "--dir", dir, "--json", "--alive")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	var statuses []stationStatus
	if err := json.Unmarshal([]byte(out), &statuses); err != nil {
		t.Fatalf("parse: %v\n%s", err, out)
	}
	if len(statuses) != 1 || statuses[0].StationName != "live" {
		t.Fatalf("expected only live station, got %+v", statuses)
	}
}

func TestListTableOutput(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "register", "--dir", dir, "--name", "tbl", "--http-port", "80"); err != nil {
		t.Fatalf("register: %v", err)
	}
	out, err := runCLI(t, "list", "--dir", dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "STATION") || !strings.Contains(out, "tbl") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}

func TestShowCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "register", "--dir", dir, "--name", "solo", "--http-port", "81"); err != nil {
		t.Fatalf("register: %v", err)
	}
	out, err := runCLI(t, "show", "solo", "--dir", dir)
	if err != nil {
		t.Fatalf("show: %v\n%s", err, out)
	}
	var st stationStatus
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("parse: %v\n%s", err, out)
	}
	if st.StationName != "solo" || st.HTTPPort != 81 {
		t.Fatalf("unexpected record: %+v", st)
	}

	if _, err := runCLI(t, "show", "ghost", "--dir", dir); err == nil {
		t.Fatal("expected error for unknown station")
	}
}

func TestRegisterRequiresName(t *testing.T) {
	if _, err := runCLI(t, "register", "--dir", t.TempDir()); err == nil {
		t.Fatal("expected error without --name")
	}
}

func TestRegisterWithHistorySink(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "cfg.toml")
	dbPath := filepath.Join(t.TempDir(), "hist.db")
	cfg := "run_dir = \"" + dir + "\"\nhistory_dsn = \"sqlite://" + dbPath + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := runCLI(t, "register", "--config", cfgPath, "--name", "audited", "--http-port", "80")
	if err != nil {
		t.Fatalf("register: %v\n%s", err, out)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("history db not created: %v", err)
	}
}

func TestListMissingDirectoryFails(t *testing.T) {
	if _, err := runCLI(t, "list", "--dir", filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing run directory")
	}
}
