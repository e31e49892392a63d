package models

import "time"

// Phase is the orchestrator's scan phase.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseCounting      Phase = "counting"
	PhaseClassifying   Phase = "classifying"
	PhaseDeduplicating Phase = "deduplicating"
	PhaseFinalizing    Phase = "finalizing"
	PhaseCompleted     Phase = "completed"
	PhaseError         Phase = "error"
	PhaseCancelled     Phase = "cancelled"
)

// Active reports whether the phase belongs to a scan in flight.
func (p Phase) Active() bool {
	switch p {
	case PhaseCounting, PhaseClassifying, PhaseDeduplicating, PhaseFinalizing:
		return true
	}
	return false
}

// Progress is one throttled progress event.
type Progress struct {
	Phase     Phase `json:"phase"`
	Processed int   `json:"processed"`
	Total     int   `json:"total"`
}

// Status is a pollable snapshot of the orchestrator. It is well-formed at all
// times, including before the first scan (zeroed counters, empty times).
type Status struct {
	Phase     Phase      `json:"phase"`
	Processed int        `json:"processed"`
	Total     int        `json:"total"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Error     string     `json:"error,omitempty"`
}
