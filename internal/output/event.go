package output

import "github.com/Plork/PSDepend/internal/dependency"

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - file.discovered
// - dependency.skipped
// - dependency.result
// - run.finished
//
// JSON mode remains an aggregate of dependency.Result values.
type Event struct {
	Type string `json:"type"`
	*dependency.Result
	Path         string `json:"path,omitempty"`
	Files        int    `json:"files,omitempty"`
	Dependencies int    `json:"dependencies,omitempty"`
	Actions      string `json:"actions,omitempty"`
	ExitCode     int    `json:"exit_code,omitempty"`
	Verdict      *bool  `json:"verdict,omitempty"`
}

func eventFromResult(r dependency.Result) Event {
	return Event{Type: "dependency.result", Result: &r}
}
