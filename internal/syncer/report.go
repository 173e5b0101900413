package syncer

import (
	"encoding/json"
	"time"
)

// Outcome is the terminal state of one page in a pass
type Outcome string

const (
	OutcomeNoop    Outcome = "no-op"
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeRetired Outcome = "retired"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

// CleanupAction names one best-effort operation on a retired message
type CleanupAction string

const (
	CleanupUnpin  CleanupAction = "unpin"
	CleanupDelete CleanupAction = "delete"
)

// CleanupResult is the result of one cleanup operation
type CleanupResult struct {
	PageID    string
	MessageID int
	Action    CleanupAction
	Err       error
}

// Report summarizes one pass
type Report struct {
	StartedAt time.Time
	Duration  time.Duration
	Outcomes  map[string]Outcome
	Cleanup   []CleanupResult
	// Err is set when the pass stopped before reconciling pages.
	Err error
}

// Count returns the number of pages with the given outcome
func (r Report) Count(o Outcome) int {
	n := 0
	for _, got := range r.Outcomes {
		if got == o {
			n++
		}
	}
	return n
}

// CleanupFailures returns the cleanup operations that failed
func (r Report) CleanupFailures() []CleanupResult {
	var out []CleanupResult
	for _, c := range r.Cleanup {
		if c.Err != nil {
			out = append(out, c)
		}
	}
	return out
}

type cleanupJSON struct {
	PageID    string        `json:"page_id"`
	MessageID int           `json:"message_id"`
	Action    CleanupAction `json:"action"`
	Error     string        `json:"error,omitempty"`
}

type reportJSON struct {
	StartedAt  time.Time          `json:"started_at"`
	DurationMS int64              `json:"duration_ms"`
	Outcomes   map[string]Outcome `json:"outcomes"`
	Counts     map[Outcome]int    `json:"counts"`
	Cleanup    []cleanupJSON      `json:"cleanup"`
	Error      string             `json:"error,omitempty"`
}

func (r Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		StartedAt:  r.StartedAt,
		DurationMS: r.Duration.Milliseconds(),
		Outcomes:   r.Outcomes,
		Counts:     make(map[Outcome]int),
		Cleanup:    make([]cleanupJSON, 0, len(r.Cleanup)),
	}
	for _, o := range r.Outcomes {
		out.Counts[o]++
	}
	for _, c := range r.Cleanup {
		cj := cleanupJSON{PageID: c.PageID, MessageID: c.MessageID, Action: c.Action}
		if c.Err != nil {
			cj.Error = c.Err.Error()
		}
		out.Cleanup = append(out.Cleanup, cj)
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}
