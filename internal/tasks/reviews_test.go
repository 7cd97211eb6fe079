package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCollector(t *testing.T) {
	ctx := context.Background()
	const bookID = 1

	t.Run("validation", func(t *testing.T) {
		tc := []struct {
			name    string
			rating  int
			comment string
		}{
			{name: "rating zero", rating: 0, comment: "fine"},
			{name: "rating six", rating: 6, comment: "fine"},
			{name: "empty comment", rating: 4, comment: "   "},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				api := newFakeAPI()
				c := NewReviewCollector(api, testValidator(), staticUser(7))

				err := c.Submit(ctx, bookID, tt.rating, tt.comment)
				assert.True(t, errors.Is(err, shared.ErrInvalidInput))
				assert.Empty(t, api.calls)
			})
		}
	})

	t.Run("ownership", func(t *testing.T) {
		c := NewReviewCollector(newFakeAPI(), testValidator(), staticUser(7))

		assert.True(t, c.IsOwn(bookID, models.Review{BookID: 99, UserID: 7}))
		assert.False(t, c.IsOwn(bookID, models.Review{BookID: bookID, UserID: 8}))
		assert.True(t, c.IsOwn(bookID, models.Review{BookID: bookID}))
		assert.False(t, c.IsOwn(bookID, models.Review{BookID: 42}))

		anon := NewReviewCollector(newFakeAPI(), testValidator(), nil)
		assert.False(t, anon.IsOwn(bookID, models.Review{BookID: bookID, UserID: 7}))
	})

	t.Run("other readers do not block a review", func(t *testing.T) {
		api := newFakeAPI()
		api.reviews[bookID] = []models.Review{{ID: 1, BookID: 55, UserID: 3, Rating: 2, Comment: "meh"}}
		c := NewReviewCollector(api, testValidator(), staticUser(7))

		reviews, err := c.List(ctx, bookID)
		require.NoError(t, err)
		assert.Len(t, reviews, 1)
		assert.True(t, c.CanReview(bookID))
	})

	t.Run("submit then second submit is rejected locally", func(t *testing.T) {
		api := newFakeAPI()
		c := NewReviewCollector(api, testValidator(), staticUser(7))

		require.NoError(t, c.Submit(ctx, bookID, 5, "Loved it"))
		assert.False(t, c.CanReview(bookID))
		assert.Equal(t, 1, api.called("CreateReview"))

		err := c.Submit(ctx, bookID, 4, "Again")
		assert.True(t, errors.Is(err, shared.ErrAlreadyReviewed))
		assert.Equal(t, 1, api.called("CreateReview"))
	})

	t.Run("existing review fetched before submit", func(t *testing.T) {
		api := newFakeAPI()
		api.reviews[bookID] = []models.Review{{ID: 1, BookID: bookID, Rating: 3, Comment: "ok"}}
		c := NewReviewCollector(api, testValidator(), staticUser(7))

		err := c.Submit(ctx, bookID, 4, "second")
		assert.True(t, errors.Is(err, shared.ErrAlreadyReviewed))
		assert.Equal(t, []string{"ListReviews"}, api.calls)
	})

	t.Run("failed refetch keeps the review locally", func(t *testing.T) {
		api := newFakeAPI()
		c := NewReviewCollector(api, testValidator(), staticUser(7))
		_, err := c.List(ctx, bookID)
		require.NoError(t, err)

		api.failOn["ListReviews"] = shared.ErrUnreachable
		require.NoError(t, c.Submit(ctx, bookID, 3, "ok"))
		own := c.Own(bookID)
		require.NotNil(t, own)
		assert.Equal(t, "★★★☆☆", own.Stars())
	})
}
