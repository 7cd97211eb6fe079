package tasks

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/validation"
)

var (
	ErrExceedsTotalPages = errors.New("exceeds total pages")
	ErrNotOnLastPage     = errors.New("a finished book must be on its last page")
	ErrOnLastPage        = errors.New("mark the book as Finished instead")
)

// ProgressAPI is the part of the REST client the progress tracker uses.
type ProgressAPI interface {
	GetProgress(ctx context.Context, bookID int64) (*models.Progress, error)
	UpdateProgress(ctx context.Context, bookID int64, update models.ProgressUpdate) error
}

// ProgressForm is the candidate status and page being edited. Unlike
// [models.ReadingState] it may hold an inconsistent combination until it is
// evaluated.
type ProgressForm struct {
	Status models.Status
	Page   int
}

// FormFor starts a form from stored progress.
func FormFor(p models.Progress) ProgressForm {
	status := p.Status
	if !status.Valid() {
		status = models.StatusWantToRead
	}
	return ProgressForm{Status: status, Page: max(p.CurrentPage, 0)}
}

// SetStatus changes the status, moving the page to 0 for Want to Read and to
// the last page for Finished.
func (f *ProgressForm) SetStatus(status models.Status, totalPages int) {
	f.Status = status
	switch status {
	case models.StatusWantToRead:
		f.Page = 0
	case models.StatusFinished:
		f.Page = totalPages
	}
}

// SetPage reads free-form page input; anything that is not a non-negative
// integer becomes 0.
func (f *ProgressForm) SetPage(input string) {
	f.Page = models.ParsePage(input)
}

// PageInput renders the page for a text field.
func (f ProgressForm) PageInput() string {
	return strconv.Itoa(f.Page)
}

// Evaluate resolves the form against book. It returns the state to submit or
// a validation error describing why the combination is not allowed.
func Evaluate(book models.Book, f ProgressForm) (models.ReadingState, error) {
	if book.TotalPages <= 0 {
		return nil, validation.Field("total_pages", "must be greater than 0")
	}
	if !f.Status.Valid() {
		return nil, validation.Field("status", fmt.Sprintf("must be one of: %s, %s, %s", models.StatusWantToRead, models.StatusReading, models.StatusFinished))
	}

	page := max(f.Page, 0)
	if f.Status == models.StatusWantToRead {
		return models.WantToRead{}, nil
	}
	if page > book.TotalPages {
		return nil, progressError(fmt.Errorf("page %d %w (%d)", page, ErrExceedsTotalPages, book.TotalPages))
	}

	switch f.Status {
	case models.StatusFinished:
		if page < book.TotalPages {
			return nil, progressError(fmt.Errorf("%w: advance to page %d first", ErrNotOnLastPage, book.TotalPages))
		}
		return models.Finished{}, nil
	default:
		if page == book.TotalPages {
			return nil, progressError(fmt.Errorf("page %d is the last page, %w", page, ErrOnLastPage))
		}
		return models.CurrentlyReading{CurrentPage: page}, nil
	}
}

// progressError tags a rule violation as invalid input while keeping its message.
func progressError(err error) error {
	return &ruleError{err: err}
}

type ruleError struct{ err error }

func (e *ruleError) Error() string { return e.err.Error() }

func (e *ruleError) Unwrap() []error { return []error{e.err, shared.ErrInvalidInput} }

// ProgressTracker loads and submits reading progress.
type ProgressTracker struct {
	api ProgressAPI
}

// NewProgressTracker creates a [ProgressTracker].
func NewProgressTracker(api ProgressAPI) *ProgressTracker {
	return &ProgressTracker{api: api}
}

// Load returns the stored progress of book, treating a missing record as
// Want to Read at page 0.
func (t *ProgressTracker) Load(ctx context.Context, book models.Book) (models.Progress, error) {
	p, err := t.api.GetProgress(ctx, book.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return models.Progress{BookID: book.ID, Status: models.StatusWantToRead}, nil
	}
	if err != nil {
		return models.Progress{}, err
	}
	return *p, nil
}

// Submit evaluates the form and replaces the stored progress. Invalid forms
// never reach the network.
func (t *ProgressTracker) Submit(ctx context.Context, book models.Book, f ProgressForm) (models.ReadingState, error) {
	state, err := Evaluate(book, f)
	if err != nil {
		return nil, err
	}
	if err := t.api.UpdateProgress(ctx, book.ID, models.UpdateFor(state, book.TotalPages)); err != nil {
		return nil, err
	}
	return state, nil
}
