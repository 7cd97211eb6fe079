package tasks

import (
	"fmt"

	"github.com/desertthunder/readtrack/internal/models"
)

// ProgressUpdate represents a progress event from a long-running operation.
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
	FetchBooks Phase = iota
	FetchProgress
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case FetchBooks:
		return "fetch_books"
	case FetchProgress:
		return "fetch_progress"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchingBooksUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchBooks,
		Step:    0,
		Total:   1,
		Message: "Fetching library...",
	}
}

func foundBooksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchBooks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d books", count),
	}
}

func fetchProgressUpdate(step, total int, book models.Book) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProgress,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, book.Title),
		Data:    book,
	}
}

func writingExportUpdate(format, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote %s export to %s", format, path),
		Data:    path,
	}
}
