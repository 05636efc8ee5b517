package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a batch run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ValidateQueries Phase = iota
	Recommend
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case ValidateQueries:
		return "validate_queries"
	case Recommend:
		return "recommend"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func invalidQueryUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ValidateQueries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ skipped: %v", step, total, err),
	}
}

func submittingUpdate(step, total int, job BatchJob) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Recommend,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Requesting: %s - %s...", step, total, job.Form.SongTitle, job.Form.Artist),
	}
}

func completedUpdate(step, total int, res BatchItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Recommend,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d recommendations)", step, total, res.Label(), len(res.Recommendations)),
		Data:    res,
	}
}

func failedUpdate(step, total int, res BatchItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Recommend,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Label(), res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written: %s", path),
	}
}
