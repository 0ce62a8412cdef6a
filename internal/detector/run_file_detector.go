package detector

import (
	"encoding/json"
	"fmt"
	"os"
)

// RunFileDetector probes the pid recorded in a run-record file. It only
// looks at the pid field; full validation of the record belongs to the
// rundata package. A missing file means the station never registered
// here, which is (false, nil), not an error.
type RunFileDetector struct {
	Path string
}

type runFilePID struct {
	PID int `json:"pid"`
}

func (d RunFileDetector) Alive() (bool, error) {
	b, err := os.ReadFile(d.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	var rec runFilePID
	if err := json.Unmarshal(b, &rec); err != nil {
		return false, fmt.Errorf("invalid run record %s: %w", d.Path, err)
	}
	return pidAlive(rec.PID), nil
}

func (d RunFileDetector) Describe() string { return "runfile:" + d.Path }
