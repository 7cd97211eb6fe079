package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/desertthunder/readtrack/internal/formatter"
	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
)

// LibraryAPI is the part of the REST client the exporter uses.
type LibraryAPI interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetProgress(ctx context.Context, bookID int64) (*models.Progress, error)
}

// Exporter snapshots the library with each book's progress.
type Exporter struct {
	api LibraryAPI
	now func() time.Time
}

// NewExporter creates an [Exporter].
func NewExporter(api LibraryAPI) *Exporter {
	return &Exporter{api: api, now: time.Now}
}

// Collect lists the books and fills in missing progress one request at a
// time, reporting each step on prog.
func (e *Exporter) Collect(ctx context.Context, prog chan<- ProgressUpdate) (*formatter.Library, error) {
	sendProgress(prog, fetchingBooksUpdate())
	books, err := e.api.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	sendProgress(prog, foundBooksUpdate(len(books)))

	lib := &formatter.Library{ExportedAt: e.now(), Entries: make([]models.LibraryEntry, 0, len(books))}
	for i, book := range books {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sendProgress(prog, fetchProgressUpdate(i+1, len(books), book))

		entry := models.LibraryEntry{Book: book}
		if book.Progress != nil {
			entry.Progress = *book.Progress
		} else {
			p, err := e.api.GetProgress(ctx, book.ID)
			switch {
			case errors.Is(err, shared.ErrNotFound):
				entry.Progress = models.Progress{BookID: book.ID, Status: models.StatusWantToRead}
			case err != nil:
				return nil, err
			default:
				entry.Progress = *p
			}
		}
		entry.Book.Progress = nil
		lib.Entries = append(lib.Entries, entry)
	}
	return lib, nil
}

// Export collects the library and writes it to path in format.
func (e *Exporter) Export(ctx context.Context, format formatter.Format, path string, prog chan<- ProgressUpdate) (string, error) {
	lib, err := e.Collect(ctx, prog)
	if err != nil {
		return "", err
	}
	written, err := formatter.WriteExport(lib, format, path)
	if err != nil {
		return "", err
	}
	sendProgress(prog, writingExportUpdate(string(format), written))
	return written, nil
}
