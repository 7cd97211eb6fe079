package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/services"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testValidator() *validation.Validator {
	return validation.NewWithClock(func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) })
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	dune := models.Book{ID: 1, Title: "Dune", Author: "Frank Herbert", TotalPages: 412}
	emma := models.Book{ID: 2, Title: "Emma", Author: "Jane Austen", TotalPages: 474}

	t.Run("Add", func(t *testing.T) {
		t.Run("valid book is created and listed", func(t *testing.T) {
			api := newFakeAPI()
			c := NewCatalog(api, testValidator())

			book, err := c.Add(ctx, models.BookInput{Title: " Dune ", Author: "Frank Herbert", TotalPages: 412})
			require.NoError(t, err)
			assert.Equal(t, "Dune", book.Title)
			assert.Len(t, c.Books(), 1)
		})

		t.Run("numeric title never reaches the network", func(t *testing.T) {
			api := newFakeAPI()
			c := NewCatalog(api, testValidator())

			_, err := c.Add(ctx, models.BookInput{Title: "12345", Author: "Someone", TotalPages: 100})
			require.Error(t, err)
			assert.Equal(t, "title cannot be only numbers.", err.Error())
			assert.Empty(t, api.calls)
			assert.Empty(t, c.Books())
		})

		t.Run("all book rules", func(t *testing.T) {
			tc := []models.BookInput{
				{Title: "D", Author: "Frank Herbert", TotalPages: 1},
				{Title: "Dune", Author: "F", TotalPages: 1},
				{Title: "Dune", Author: "Frank Herbert", TotalPages: 0},
				{Title: "Dune", Author: "Frank Herbert", TotalPages: 1, PublicationYear: 999},
				{Title: "Dune", Author: "Frank Herbert", TotalPages: 1, PublicationYear: 2026},
				{Title: "   ", Author: "Frank Herbert", TotalPages: 1},
			}
			for _, in := range tc {
				api := newFakeAPI()
				_, err := NewCatalog(api, testValidator()).Add(ctx, in)
				assert.True(t, errors.Is(err, shared.ErrInvalidInput), "input %+v", in)
				assert.Empty(t, api.calls)
			}
		})

		t.Run("server error leaves list unchanged", func(t *testing.T) {
			api := newFakeAPI()
			api.failOn["CreateBook"] = &services.APIError{Status: 500, Message: "db down"}
			c := NewCatalog(api, testValidator())

			_, err := c.Add(ctx, models.BookInput{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})
			assert.EqualError(t, err, "db down")
			assert.Empty(t, c.Books())
		})
	})

	t.Run("Edit applies the same rules", func(t *testing.T) {
		api := newFakeAPI(dune)
		c := NewCatalog(api, testValidator())
		_, err := c.Load(ctx)
		require.NoError(t, err)

		_, err = c.Edit(ctx, dune.ID, models.BookInput{Title: "2001", Author: "Arthur C. Clarke", TotalPages: 300})
		assert.Error(t, err)
		assert.Zero(t, api.called("UpdateBook"))

		book, err := c.Edit(ctx, dune.ID, models.BookInput{Title: "Dune Messiah", Author: "Frank Herbert", TotalPages: 256})
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", book.Title)
		assert.Equal(t, "Dune Messiah", c.Books()[0].Title)
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("cancelled confirmation sends nothing", func(t *testing.T) {
			api := newFakeAPI(dune, emma)
			c := NewCatalog(api, testValidator())
			_, err := c.Load(ctx)
			require.NoError(t, err)
			api.calls = nil

			var asked string
			decline := ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
				asked = prompt
				return false, nil
			})

			err = c.Delete(ctx, dune.ID, decline)
			assert.True(t, errors.Is(err, shared.ErrCancelled))
			assert.Equal(t, `Remove "Dune" from your library?`, asked)
			assert.Empty(t, api.calls)
			assert.Len(t, c.Books(), 2)
		})

		t.Run("confirmed delete removes locally without refetch", func(t *testing.T) {
			api := newFakeAPI(dune, emma)
			c := NewCatalog(api, testValidator())
			_, err := c.Load(ctx)
			require.NoError(t, err)
			api.calls = nil

			require.NoError(t, c.Delete(ctx, dune.ID, Always))
			assert.Equal(t, []string{"DeleteBook"}, api.calls)

			books := c.Books()
			require.Len(t, books, 1)
			assert.Equal(t, emma.ID, books[0].ID)
		})

		t.Run("failed delete leaves list unchanged", func(t *testing.T) {
			api := newFakeAPI(dune, emma)
			api.failOn["DeleteBook"] = &services.APIError{Status: 500, Message: "Failed to delete book"}
			c := NewCatalog(api, testValidator())
			_, err := c.Load(ctx)
			require.NoError(t, err)

			err = c.Delete(ctx, dune.ID, Always)
			assert.EqualError(t, err, "Failed to delete book")
			assert.Len(t, c.Books(), 2)
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("blank query relists all books", func(t *testing.T) {
			api := newFakeAPI(dune, emma)
			c := NewCatalog(api, testValidator())

			books, err := c.Search(ctx, "   ")
			require.NoError(t, err)
			assert.Len(t, books, 2)
			assert.Equal(t, []string{"ListBooks"}, api.calls)
		})

		t.Run("query goes to the search endpoint", func(t *testing.T) {
			api := newFakeAPI(dune, emma)
			c := NewCatalog(api, testValidator())

			books, err := c.Search(ctx, "emm")
			require.NoError(t, err)
			require.Len(t, books, 1)
			assert.Equal(t, "Emma", books[0].Title)
			assert.Equal(t, []string{"SearchBooks"}, api.calls)
		})
	})

	t.Run("Get falls back to the API", func(t *testing.T) {
		api := newFakeAPI(dune)
		c := NewCatalog(api, testValidator())

		book, err := c.Get(ctx, dune.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, 1, api.called("GetBook"))
	})
}
