package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/services"
	"github.com/desertthunder/readtrack/internal/session"
	"github.com/desertthunder/readtrack/internal/shared"
	tu "github.com/desertthunder/readtrack/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgainstStubBackend(t *testing.T) {
	ctx := context.Background()
	stub := tu.NewStubBackend(t)

	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.Save(stub.Login(t, "Ada", "ada@example.com")))
	client := services.NewClient(services.ClientOpts{BaseURL: stub.BaseURL, Tokens: sess, HTTPClient: stub.Server.Client()})

	catalog := NewCatalog(client, testValidator())
	book, err := catalog.Add(ctx, models.BookInput{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", TotalPages: 412})
	require.NoError(t, err)

	t.Run("validation errors send nothing", func(t *testing.T) {
		before := stub.Requests()
		_, err := catalog.Add(ctx, models.BookInput{Title: "42", Author: "Nobody", TotalPages: 10})
		assert.Error(t, err)
		assert.Equal(t, before, stub.Requests())
	})

	t.Run("progress round trip", func(t *testing.T) {
		tracker := NewProgressTracker(client)
		p, err := tracker.Load(ctx, *book)
		require.NoError(t, err)
		assert.Equal(t, models.StatusWantToRead, p.Status)

		_, err = tracker.Submit(ctx, *book, ProgressForm{Status: models.StatusReading, Page: 206})
		require.NoError(t, err)

		p, err = tracker.Load(ctx, *book)
		require.NoError(t, err)
		assert.Equal(t, 206, p.CurrentPage)
		assert.Equal(t, 50, models.Percent(p.CurrentPage, book.TotalPages))
	})

	t.Run("goal without target is nil", func(t *testing.T) {
		g := NewGoalTracker(client, testValidator(), models.Yearly(2030))
		status, err := g.Refresh(ctx)
		require.NoError(t, err)
		assert.Nil(t, status)
	})

	t.Run("second review is refused", func(t *testing.T) {
		reviews := NewReviewCollector(client, testValidator(), sess)
		require.NoError(t, reviews.Submit(ctx, book.ID, 5, "A classic"))
		assert.False(t, reviews.CanReview(book.ID))

		err := reviews.Submit(ctx, book.ID, 1, "Changed my mind")
		assert.True(t, errors.Is(err, shared.ErrAlreadyReviewed))
	})

	t.Run("delete removes the book", func(t *testing.T) {
		require.NoError(t, catalog.Delete(ctx, book.ID, Always))
		books, err := catalog.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}
