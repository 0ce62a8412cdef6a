package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/loykin/stationreg/internal/history"
	"github.com/loykin/stationreg/internal/rundata"
)

func testEvent(typ history.EventType, alive bool) history.Event {
	return history.Event{
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Record: rundata.RunData{
			StationName: "station-01",
			CellCount:   4,
			TestType:    "acceptance",
			TestVersion: "1.0.3",
			HTTPHost:    "localhost",
			HTTPPort:    8080,
			PID:         12345,
		},
		Alive: alive,
	}
}

func TestSQLiteSink_SendEvents(t *testing.T) {
	dbPath := t.TempDir() + "/history.db"

	sink, err := New("file:" + dbPath)
	if err != nil {
		t.Fatalf("Failed to create sink: %v", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			t.Errorf("Failed to close sink: %v", err)
		}
	}()

	ctx := context.Background()

	if err := sink.Send(ctx, testEvent(history.EventRegister, true)); err != nil {
		t.Fatalf("Failed to send register event: %v", err)
	}
	if err := sink.Send(ctx, testEvent(history.EventObserved, false)); err != nil {
		t.Fatalf("Failed to send observed event: %v", err)
	}

	var count int
	row := sink.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM station_history WHERE station = ?`, "station-01")
	if err := row.Scan(&count); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 history rows, got %d", count)
	}

	var event string
	var alive bool
	row = sink.db.QueryRowContext(ctx,
		`SELECT event, alive FROM station_history WHERE alive = 0 LIMIT 1`)
	if err := row.Scan(&event, &alive); err != nil {
		t.Fatalf("Failed to read observed row: %v", err)
	}
	if event != string(history.EventObserved) || alive {
		t.Fatalf("unexpected row: event=%s alive=%v", event, alive)
	}
}

func TestSQLiteSink_InMemory(t *testing.T) {
	sink, err := New("sqlite://:memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory sink: %v", err)
	}
	defer func() { _ = sink.Close() }()

	if err := sink.Send(context.Background(), testEvent(history.EventRegister, true)); err != nil {
		t.Fatalf("Failed to send event: %v", err)
	}
}

func TestSQLiteSink_EmptyDSN(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}
