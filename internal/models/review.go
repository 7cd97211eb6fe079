package models

import (
	"strings"
	"time"
)

// MaxRating is the top of the 1..5 rating scale.
const MaxRating = 5

// Review is a rating and comment left on a book.
//
// The backend lists reviews by ISBN, so a book's reviews may include other
// users' reviews of their own copy. UserID is zero when the backend omits it.
type Review struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	UserID    int64     `json:"user_id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Stars renders the review's rating.
func (r Review) Stars() string { return Stars(r.Rating) }

// ReviewInput is the body of POST /books/:id/reviews.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

// Stars renders rating filled stars followed by empty ones, five in total.
func Stars(rating int) string {
	rating = max(0, min(rating, MaxRating))
	return strings.Repeat("★", rating) + strings.Repeat("☆", MaxRating-rating)
}
