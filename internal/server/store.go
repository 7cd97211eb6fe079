package server

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/readtrack/internal/models"
)

type account struct {
	user models.User
	hash []byte
}

type goalKey struct {
	userID int64
	year   int
	month  int
}

// store is the stub's in-memory state. All access goes through its mutex.
type store struct {
	mu       sync.Mutex
	seq      int64
	accounts map[int64]*account
	emails   map[string]int64
	books    map[int64]*models.Book
	progress map[int64]*models.Progress
	reviews  []reviewRecord
	goals    map[goalKey]int
}

type reviewRecord struct {
	review models.Review
	isbn   string
}

func newStore() *store {
	return &store{
		accounts: map[int64]*account{},
		emails:   map[string]int64{},
		books:    map[int64]*models.Book{},
		progress: map[int64]*models.Progress{},
		goals:    map[goalKey]int{},
	}
}

func (s *store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *store) userBooks(userID int64) []models.Book {
	var out []models.Book
	for _, b := range s.books {
		if b.UserID == userID {
			out = append(out, s.withProgress(*b))
		}
	}
	slices.SortFunc(out, func(a, b models.Book) int { return int(a.ID - b.ID) })
	return out
}

func (s *store) withProgress(b models.Book) models.Book {
	if p, ok := s.progress[b.ID]; ok {
		cp := *p
		b.Progress = &cp
	}
	return b
}

func (s *store) ownedBook(userID, bookID int64) (*models.Book, bool) {
	b, ok := s.books[bookID]
	if !ok || b.UserID != userID {
		return nil, false
	}
	return b, true
}

func (s *store) search(userID int64, query string) []models.Book {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Book
	for _, b := range s.userBooks(userID) {
		if q == "" || strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b)
		}
	}
	return out
}

func (s *store) deleteBook(bookID int64) {
	delete(s.books, bookID)
	delete(s.progress, bookID)
	s.reviews = slices.DeleteFunc(s.reviews, func(r reviewRecord) bool { return r.review.BookID == bookID })
}

// reviewsFor returns every review of the same ISBN as book, or of book itself
// when it has no ISBN.
func (s *store) reviewsFor(book *models.Book) []models.Review {
	out := []models.Review{}
	for _, r := range s.reviews {
		if r.review.BookID == book.ID || (book.ISBN != "" && r.isbn == book.ISBN) {
			out = append(out, r.review)
		}
	}
	return out
}

func (s *store) hasReview(userID, bookID int64) bool {
	return slices.ContainsFunc(s.reviews, func(r reviewRecord) bool {
		return r.review.UserID == userID && r.review.BookID == bookID
	})
}

// finishedIn counts the user's books marked Finished within the period.
func (s *store) finishedIn(userID int64, p models.Period) int {
	n := 0
	for _, b := range s.books {
		if b.UserID != userID {
			continue
		}
		pr, ok := s.progress[b.ID]
		if !ok || pr.Status != models.StatusFinished {
			continue
		}
		at := pr.LastUpdated
		if at.Year() == p.Year && (!p.IsMonthly() || int(at.Month()) == p.Month) {
			n++
		}
	}
	return n
}

func (s *store) dashboard(userID int64, now time.Time) models.DashboardStats {
	var stats models.DashboardStats
	for _, b := range s.userBooks(userID) {
		stats.TotalBooks++
		if b.Progress == nil {
			continue
		}
		switch b.Progress.Status {
		case models.StatusReading:
			stats.CurrentlyReading++
		case models.StatusFinished:
			stats.BooksFinished++
		}
	}

	var sum, count int
	for _, r := range s.reviews {
		if r.review.UserID == userID {
			sum += r.review.Rating
			count++
		}
	}
	if count > 0 {
		stats.AverageRating = float64(sum) / float64(count)
	}

	year, month := now.Year(), int(now.Month())
	stats.YearlyTarget = s.goals[goalKey{userID, year, 0}]
	stats.MonthlyTarget = s.goals[goalKey{userID, year, month}]
	stats.MonthlyFinished = s.finishedIn(userID, models.Monthly(year, month))
	stats.GoalTarget = stats.YearlyTarget
	if stats.GoalTarget == 0 {
		stats.GoalTarget = stats.MonthlyTarget
	}
	for k := range s.goals {
		if k.userID == userID {
			stats.GoalsSetCount++
		}
	}
	return stats
}
