package detector

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestPIDDetectorSelf(t *testing.T) {
	d := PIDDetector{PID: os.Getpid()}
	alive, err := d.Alive()
	if err != nil {
		t.Fatalf("Alive error: %v", err)
	}
	if !alive {
		t.Fatal("expected current process to be alive")
	}
}

func TestPIDDetectorInvalid(t *testing.T) {
	for _, pid := range []int{0, -1, 1 << 30} {
		d := PIDDetector{PID: pid}
		alive, err := d.Alive()
		if err != nil {
			t.Fatalf("Alive(%d) error: %v", pid, err)
		}
		if alive {
			t.Fatalf("expected pid %d to be dead", pid)
		}
	}
}

func TestPIDDetectorDescribe(t *testing.T) {
	if got := (PIDDetector{PID: 42}).Describe(); got != "pid:42" {
		t.Fatalf("unexpected description: %s", got)
	}
}

func TestRunFileDetectorAlive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "station-self")
	content := `{
    "cell_count": 1,
    "http_host": "localhost",
    "http_port": 8080,
    "pid": ` + strconv.Itoa(os.Getpid()) + `,
    "station_name": "station-self",
    "test_type": "smoke",
    "test_version": "0.1"
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write run file: %v", err)
	}
	d := RunFileDetector{Path: path}
	alive, err := d.Alive()
	if err != nil {
		t.Fatalf("Alive error: %v", err)
	}
	if !alive {
		t.Fatal("expected alive for own pid")
	}
}

func TestRunFileDetectorMissingFile(t *testing.T) {
	d := RunFileDetector{Path: filepath.Join(t.TempDir(), "absent")}
	alive, err := d.Alive()
	if err != nil {
		t.Fatalf("Alive error: %v", err)
	}
	if alive {
		t.Fatal("expected missing file to report not alive")
	}
}

func TestRunFileDetectorMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken")
	if err := os.WriteFile(path, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d := RunFileDetector{Path: path}
	if _, err := d.Alive(); err == nil {
		t.Fatal("expected error for malformed run file")
	}
}
