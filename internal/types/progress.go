package types

// RunProgress is a point-in-time view of one ranking run, safe to serialize
// for polling clients. Percentage never decreases over the life of a run.
type RunProgress struct {
	Percentage int      `json:"percentage"`
	Status     string   `json:"status"`
	Logs       []string `json:"logs"`
	Error      string   `json:"error,omitempty"`
	Done       bool     `json:"done"`
}
