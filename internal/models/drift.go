package models

// DriftReportResponse is the body of GET /drift.
type DriftReportResponse struct {
	Error     string               `json:"error,omitempty"`
	Reports   []ApplicationDrift   `json:"reports,omitempty"`
	Failures  []ApplicationFailure `json:"failures,omitempty"`
	Completed []string             `json:"completed,omitempty"`
	Pending   []string             `json:"pending,omitempty"`
}

type ApplicationDrift struct {
	Application string                       `json:"application"`
	Latest      string                       `json:"latest"`
	Drift       map[string]map[string]string `json:"drift"`
}

type ApplicationFailure struct {
	Application string `json:"application"`
	Error       string `json:"error"`
}
