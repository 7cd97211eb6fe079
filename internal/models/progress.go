package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Status is the reading status as sent over the wire.
type Status string

const (
	StatusWantToRead Status = "Want to Read"
	StatusReading    Status = "Currently Reading"
	StatusFinished   Status = "Finished"
)

// Statuses lists every status in reading order.
var Statuses = []Status{StatusWantToRead, StatusReading, StatusFinished}

// Valid reports whether s is one of the three wire statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusFinished:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus accepts the wire strings and loose spellings such as
// "want-to-read", "reading" or "FINISHED".
func ParseStatus(s string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)

	switch key {
	case "wanttoread", "want", "toread":
		return StatusWantToRead, nil
	case "currentlyreading", "reading":
		return StatusReading, nil
	case "finished", "done", "read":
		return StatusFinished, nil
	}
	return "", fmt.Errorf("unknown status %q (want one of %q, %q, %q)", s, StatusWantToRead, StatusReading, StatusFinished)
}

// Progress is the stored reading position for one book.
type Progress struct {
	ID          int64     `json:"id,omitempty"`
	BookID      int64     `json:"book_id"`
	CurrentPage int       `json:"current_page"`
	Status      Status    `json:"status"`
	LastUpdated time.Time `json:"last_updated,omitzero"`
}

// ProgressUpdate is the body of PUT /books/:id/progress.
type ProgressUpdate struct {
	CurrentPage int    `json:"current_page"`
	Status      Status `json:"status"`
}

// ReadingState is the consistent reading state of a book.
//
// Only the three variants below implement it, so a Finished book always sits
// on its last page and an unread book always sits on page zero.
type ReadingState interface {
	Status() Status
	// Page resolves the page number for a book with totalPages pages.
	Page(totalPages int) int
	readingState()
}

// WantToRead is a book not started yet.
type WantToRead struct{}

// CurrentlyReading is a book in progress, strictly before its last page.
type CurrentlyReading struct {
	CurrentPage int
}

// Finished is a completed book.
type Finished struct{}

func (WantToRead) Status() Status { return StatusWantToRead }
func (CurrentlyReading) Status() Status { return StatusReading }
func (Finished) Status() Status { return StatusFinished }

func (WantToRead) Page(int) int { return 0 }
func (s CurrentlyReading) Page(int) int { return s.CurrentPage }
func (Finished) Page(totalPages int) int { return totalPages }
func (WantToRead) readingState() {}
func (CurrentlyReading) readingState() {}
func (Finished) readingState() {}

// StateOf maps stored progress to a [ReadingState]. Unknown statuses are
// treated as Want to Read, matching the backend default.
func StateOf(p Progress) ReadingState {
	switch p.Status {
	case StatusReading:
		return CurrentlyReading{CurrentPage: p.CurrentPage}
	case StatusFinished:
		return Finished{}
	}
	return WantToRead{}
}

// UpdateFor builds the request body for state on a book with totalPages pages.
func UpdateFor(state ReadingState, totalPages int) ProgressUpdate {
	return ProgressUpdate{CurrentPage: state.Page(totalPages), Status: state.Status()}
}

// Percent returns round(page/total*100) clamped to [0, 100]. A book without
// pages is 0 percent read.
func Percent(page, totalPages int) int {
	if totalPages <= 0 || page <= 0 {
		return 0
	}
	pct := int(math.Round(float64(page) / float64(totalPages) * 100))
	return min(pct, 100)
}

// ParsePage converts free-form page input to a page number: non-numeric input
// is 0 and negative values clamp to 0.
func ParsePage(input string) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
