package client

// StationStatus is one discovered run record annotated with liveness,
// mirroring the server's response shape.
type StationStatus struct {
	StationName string `json:"station_name"`
	CellCount   int    `json:"cell_count"`
	TestType    string `json:"test_type"`
	TestVersion string `json:"test_version"`
	HTTPHost    string `json:"http_host"`
	HTTPPort    int    `json:"http_port"`
	PID         int    `json:"pid"`
	Alive       bool   `json:"alive"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}
