package rundata

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/loykin/stationreg/internal/detector"
)

// RunData describes one running test-station instance. A station writes
// its record to a shared run directory at startup and leaves it there;
// readers decide staleness through IsAlive, never by deleting the file.
type RunData struct {
	StationName string `json:"station_name"`
	CellCount   int    `json:"cell_count"`
	TestType    string `json:"test_type"`
	TestVersion string `json:"test_version"`
	HTTPHost    string `json:"http_host"` // always the loopback host by convention
	HTTPPort    int    `json:"http_port"`
	PID         int    `json:"pid"`
}

// requiredKeys is the exact key set of a run-record file, sorted.
var requiredKeys = []string{
	"cell_count",
	"http_host",
	"http_port",
	"pid",
	"station_name",
	"test_type",
	"test_version",
}

// DecodeError reports run-record text that could not be decoded:
// invalid JSON, a non-object top level, a missing required field,
// an unknown extra field, or a field of the wrong JSON type.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return "decode run data: " + e.Reason + ": " + e.Err.Error()
	}
	return "decode run data: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses UTF-8 JSON text into a RunData. The key set of the
// top-level object must equal the seven record fields exactly; field
// order in the source text is irrelevant.
func Decode(data []byte) (RunData, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return RunData{}, &DecodeError{Reason: "invalid JSON", Err: err}
	}
	if raw == nil {
		return RunData{}, &DecodeError{Reason: "not a JSON object"}
	}
	for _, k := range requiredKeys {
		if _, ok := raw[k]; !ok {
			return RunData{}, &DecodeError{Reason: "missing field " + strconv.Quote(k)}
		}
	}
	if len(raw) != len(requiredKeys) {
		for k := range raw {
			if !isRequiredKey(k) {
				return RunData{}, &DecodeError{Reason: "unknown field " + strconv.Quote(k)}
			}
		}
	}
	var rd RunData
	if err := json.Unmarshal(data, &rd); err != nil {
		return RunData{}, &DecodeError{Reason: "field has wrong JSON type", Err: err}
	}
	return rd, nil
}

func isRequiredKey(k string) bool {
	for _, want := range requiredKeys {
		if k == want {
			return true
		}
	}
	return false
}

// Encode renders the record in its canonical JSON form: keys sorted
// lexicographically, 4-space indentation, one key-value pair per line.
// Equal records always encode to byte-identical output, which keeps
// the on-disk files diff-friendly.
func (r RunData) Encode() ([]byte, error) {
	// Marshal through a map so encoding/json sorts the keys.
	m := map[string]any{
		"station_name": r.StationName,
		"cell_count":   r.CellCount,
		"test_type":    r.TestType,
		"test_version": r.TestVersion,
		"http_host":    r.HTTPHost,
		"http_port":    r.HTTPPort,
		"pid":          r.PID,
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	// Encoder appends a newline; the canonical form has none.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Save writes the canonical encoding of the record to dir/<station_name>,
// overwriting any existing file, and returns the path written. Only the
// owning station process may write its own file; concurrent writers to
// the same station name are last-writer-wins.
func (r RunData) Save(dir string) (string, error) {
	b, err := r.Encode()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, r.StationName)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// IsAlive reports whether the OS process that wrote this record still
// exists. A pid reused by an unrelated later process is reported as
// alive; the probe confirms process existence, not identity. Probe
// failures collapse to false.
func (r RunData) IsAlive() bool {
	alive, err := detector.PIDDetector{PID: r.PID}.Alive()
	return err == nil && alive
}

// Load reads and decodes the run-record file at path.
func Load(path string) (RunData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return RunData{}, err
	}
	return Decode(b)
}

// Enumerate loads every run record directly under dir. Subdirectories
// are skipped; the scan is not recursive. Records come back sorted by
// filename (equivalently, by station name). The first file that fails
// to load aborts the whole scan with that error; there is no partial
// result.
func Enumerate(dir string) ([]RunData, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var records []RunData
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		rd, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		records = append(records, rd)
	}
	return records, nil
}
