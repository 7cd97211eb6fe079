package tasks

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/services"
)

// fakeAPI records every call and serves canned data.
type fakeAPI struct {
	books    []models.Book
	progress map[int64]models.Progress
	reviews  map[int64][]models.Review
	goals    map[models.Period]models.GoalProgress
	calls    []string
	failOn   map[string]error
	nextID   int64
}

func newFakeAPI(books ...models.Book) *fakeAPI {
	return &fakeAPI{
		books:    books,
		progress: map[int64]models.Progress{},
		reviews:  map[int64][]models.Review{},
		goals:    map[models.Period]models.GoalProgress{},
		failOn:   map[string]error{},
		nextID:   100,
	}
}

func (f *fakeAPI) record(name string) error {
	f.calls = append(f.calls, name)
	return f.failOn[name]
}

func (f *fakeAPI) called(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func notFound(msg string) error {
	return &services.APIError{Status: http.StatusNotFound, Message: msg}
}

func (f *fakeAPI) ListBooks(context.Context) ([]models.Book, error) {
	if err := f.record("ListBooks"); err != nil {
		return nil, err
	}
	return slices.Clone(f.books), nil
}

func (f *fakeAPI) GetBook(_ context.Context, id int64) (*models.Book, error) {
	if err := f.record("GetBook"); err != nil {
		return nil, err
	}
	for _, b := range f.books {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, notFound("Book not found")
}

func (f *fakeAPI) CreateBook(_ context.Context, in models.BookInput) (*models.Book, error) {
	if err := f.record("CreateBook"); err != nil {
		return nil, err
	}
	f.nextID++
	b := models.Book{ID: f.nextID}
	b.Apply(in)
	f.books = append(f.books, b)
	return &b, nil
}

func (f *fakeAPI) UpdateBook(_ context.Context, id int64, in models.BookInput) error {
	if err := f.record("UpdateBook"); err != nil {
		return err
	}
	for i := range f.books {
		if f.books[i].ID == id {
			f.books[i].Apply(in)
			return nil
		}
	}
	return notFound("Book not found")
}

func (f *fakeAPI) DeleteBook(_ context.Context, id int64) error {
	if err := f.record("DeleteBook"); err != nil {
		return err
	}
	f.books = slices.DeleteFunc(f.books, func(b models.Book) bool { return b.ID == id })
	return nil
}

func (f *fakeAPI) SearchBooks(_ context.Context, q string) ([]models.Book, error) {
	if err := f.record("SearchBooks"); err != nil {
		return nil, err
	}
	var out []models.Book
	for _, b := range f.books {
		if strings.Contains(strings.ToLower(b.Title), strings.ToLower(q)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetProgress(_ context.Context, bookID int64) (*models.Progress, error) {
	if err := f.record("GetProgress"); err != nil {
		return nil, err
	}
	p, ok := f.progress[bookID]
	if !ok {
		return nil, notFound("Progress not found")
	}
	return &p, nil
}

func (f *fakeAPI) UpdateProgress(_ context.Context, bookID int64, u models.ProgressUpdate) error {
	if err := f.record("UpdateProgress"); err != nil {
		return err
	}
	f.progress[bookID] = models.Progress{BookID: bookID, CurrentPage: u.CurrentPage, Status: u.Status}
	return nil
}

func (f *fakeAPI) ListReviews(_ context.Context, bookID int64) ([]models.Review, error) {
	if err := f.record("ListReviews"); err != nil {
		return nil, err
	}
	return slices.Clone(f.reviews[bookID]), nil
}

func (f *fakeAPI) CreateReview(_ context.Context, bookID int64, in models.ReviewInput) error {
	if err := f.record("CreateReview"); err != nil {
		return err
	}
	f.nextID++
	f.reviews[bookID] = append(f.reviews[bookID], models.Review{ID: f.nextID, BookID: bookID, UserID: 7, Rating: in.Rating, Comment: in.Comment})
	return nil
}

func (f *fakeAPI) SetGoal(_ context.Context, in models.GoalInput) error {
	if err := f.record("SetGoal"); err != nil {
		return err
	}
	p := models.Period{Year: in.Year, Month: in.Month}
	g := f.goals[p]
	g.Year, g.Month, g.Target = in.Year, in.Month, in.TargetBooks
	f.goals[p] = g
	return nil
}

func (f *fakeAPI) GoalProgress(_ context.Context, p models.Period) (*models.GoalProgress, error) {
	if err := f.record("GoalProgress"); err != nil {
		return nil, err
	}
	g, ok := f.goals[p]
	if !ok {
		return nil, notFound("No goal found for this period")
	}
	return &g, nil
}

type staticUser int64

func (u staticUser) UserID() int64 { return int64(u) }
