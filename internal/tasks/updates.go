package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	LoadSets Phase = iota
	ExportSet
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case LoadSets:
		return "load_sets"
	case ExportSet:
		return "export_set"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func loadingSetsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadSets,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Loading %d saved sets...", total),
	}
}

func exportCompletedUpdate(step, total int, res SetExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSet,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exported %s (%d songs)", res.Name, res.Songs),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res SetExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSet,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to export %s: %v", res.Name, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: "Writing manifest " + path,
	}
}
