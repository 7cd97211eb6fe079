package tasks

import (
	"context"
	"strings"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/validation"
)

// ReviewAPI is the part of the REST client the review collector uses.
type ReviewAPI interface {
	ListReviews(ctx context.Context, bookID int64) ([]models.Review, error)
	CreateReview(ctx context.Context, bookID int64, in models.ReviewInput) error
}

// Identity tells the collector who is logged in. [session.Session] satisfies it.
type Identity interface {
	UserID() int64
}

// ReviewCollector lists reviews and enforces one review per user per book.
type ReviewCollector struct {
	api      ReviewAPI
	validate *validation.Validator
	who      Identity
	reviews  map[int64][]models.Review
}

// NewReviewCollector creates a [ReviewCollector].
func NewReviewCollector(api ReviewAPI, v *validation.Validator, who Identity) *ReviewCollector {
	if v == nil {
		v = validation.New()
	}
	return &ReviewCollector{api: api, validate: v, who: who, reviews: map[int64][]models.Review{}}
}

// List fetches the reviews shown for bookID. They may include other readers'
// reviews of the same edition.
func (c *ReviewCollector) List(ctx context.Context, bookID int64) ([]models.Review, error) {
	reviews, err := c.api.ListReviews(ctx, bookID)
	if err != nil {
		return nil, err
	}
	c.reviews[bookID] = reviews
	return reviews, nil
}

// IsOwn reports whether r was written by the logged-in user for bookID. The
// user id is compared when the backend sends one; otherwise the review
// belongs to the user when it is attached to their own copy of the book.
func (c *ReviewCollector) IsOwn(bookID int64, r models.Review) bool {
	if r.UserID != 0 {
		me := c.me()
		return me != 0 && r.UserID == me
	}
	return r.BookID == bookID
}

// Own returns the user's review among the last fetched reviews of bookID.
func (c *ReviewCollector) Own(bookID int64) *models.Review {
	for _, r := range c.reviews[bookID] {
		if c.IsOwn(bookID, r) {
			return &r
		}
	}
	return nil
}

// CanReview is false once the user's own review is among the fetched reviews.
func (c *ReviewCollector) CanReview(bookID int64) bool {
	return c.Own(bookID) == nil
}

// Submit validates the review, refuses a second review and posts it. The
// list is refetched afterwards so [ReviewCollector.CanReview] turns false;
// if that refetch fails the posted review is recorded locally instead.
func (c *ReviewCollector) Submit(ctx context.Context, bookID int64, rating int, comment string) error {
	in := models.ReviewInput{Rating: rating, Comment: strings.TrimSpace(comment)}
	if err := c.validate.Validate(in); err != nil {
		return err
	}

	if _, fetched := c.reviews[bookID]; !fetched {
		if _, err := c.List(ctx, bookID); err != nil {
			return err
		}
	}
	if !c.CanReview(bookID) {
		return shared.ErrAlreadyReviewed
	}

	if err := c.api.CreateReview(ctx, bookID, in); err != nil {
		return err
	}
	if _, err := c.List(ctx, bookID); err != nil {
		c.reviews[bookID] = append(c.reviews[bookID], models.Review{BookID: bookID, UserID: c.me(), Rating: in.Rating, Comment: in.Comment})
	}
	return nil
}

func (c *ReviewCollector) me() int64 {
	if c.who == nil {
		return 0
	}
	return c.who.UserID()
}
