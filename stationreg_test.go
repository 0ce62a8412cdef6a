package stationreg

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestFacadeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := RunData{
		StationName: "facade-01",
		CellCount:   2,
		TestType:    "smoke",
		TestVersion: "0.1",
		HTTPHost:    "localhost",
		HTTPPort:    8080,
		PID:         os.Getpid(),
	}
	path, err := r.Save(dir)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != r {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, r)
	}
	records, err := Enumerate(dir)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(records) != 1 || !records[0].IsAlive() {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestFacadeDetector(t *testing.T) {
	alive, err := NewPIDDetector(os.Getpid()).Alive()
	if err != nil || !alive {
		t.Fatalf("own pid should be alive: %v %v", alive, err)
	}
}

func TestFacadeHTTPHandler(t *testing.T) {
	dir := t.TempDir()
	r := RunData{
		StationName: "http-01",
		CellCount:   1,
		TestType:    "smoke",
		TestVersion: "0.1",
		HTTPHost:    "localhost",
		HTTPPort:    9000,
		PID:         os.Getpid(),
	}
	if _, err := r.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	srv := httptest.NewServer(NewHTTPHandler(dir, "/api", nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/stations")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	var stations []map[string]any
	if err := json.Unmarshal(body, &stations); err != nil {
		t.Fatalf("parse: %v\n%s", err, body)
	}
	if len(stations) != 1 || stations[0]["station_name"] != "http-01" {
		t.Fatalf("unexpected stations: %s", body)
	}
}

func TestFacadeHistorySink(t *testing.T) {
	sink, err := NewHistorySink("sqlite://:memory:")
	if err != nil {
		t.Fatalf("NewHistorySink: %v", err)
	}
	if closer, ok := sink.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}
}
