package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/validation"
)

// BookAPI is the part of the REST client the catalog uses.
type BookAPI interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error)
	UpdateBook(ctx context.Context, id int64, in models.BookInput) error
	DeleteBook(ctx context.Context, id int64) error
	SearchBooks(ctx context.Context, query string) ([]models.Book, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to [Confirmer].
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Always is a [Confirmer] that answers yes without asking.
var Always = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Catalog is the in-memory list of the user's books.
type Catalog struct {
	api      BookAPI
	validate *validation.Validator
	books    []models.Book
}

// NewCatalog creates an empty catalog. Call [Catalog.Load] to populate it.
func NewCatalog(api BookAPI, v *validation.Validator) *Catalog {
	if v == nil {
		v = validation.New()
	}
	return &Catalog{api: api, validate: v}
}

// Books returns a copy of the current list.
func (c *Catalog) Books() []models.Book {
	return slices.Clone(c.books)
}

// Load replaces the list with the server's.
func (c *Catalog) Load(ctx context.Context) ([]models.Book, error) {
	books, err := c.api.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	c.books = books
	return c.Books(), nil
}

func (c *Catalog) index(id int64) int {
	return slices.IndexFunc(c.books, func(b models.Book) bool { return b.ID == id })
}

// Get returns a book from the list, fetching it when it is not loaded.
func (c *Catalog) Get(ctx context.Context, id int64) (*models.Book, error) {
	if i := c.index(id); i >= 0 {
		b := c.books[i]
		return &b, nil
	}
	return c.api.GetBook(ctx, id)
}

// Validate normalizes in and checks it against the book rules without sending anything.
func (c *Catalog) Validate(in models.BookInput) (models.BookInput, error) {
	in = in.Normalize()
	if err := c.validate.Validate(in); err != nil {
		return in, err
	}
	return in, nil
}

// Add validates in, creates the book and appends it to the list.
func (c *Catalog) Add(ctx context.Context, in models.BookInput) (*models.Book, error) {
	in, err := c.Validate(in)
	if err != nil {
		return nil, err
	}

	book, err := c.api.CreateBook(ctx, in)
	if err != nil {
		return nil, err
	}
	c.books = append(c.books, *book)
	return book, nil
}

// Edit validates in with the same rules as [Catalog.Add] and updates the book.
func (c *Catalog) Edit(ctx context.Context, id int64, in models.BookInput) (*models.Book, error) {
	in, err := c.Validate(in)
	if err != nil {
		return nil, err
	}

	if err := c.api.UpdateBook(ctx, id, in); err != nil {
		return nil, err
	}

	if i := c.index(id); i >= 0 {
		c.books[i].Apply(in)
		b := c.books[i]
		return &b, nil
	}
	b := models.Book{ID: id}
	b.Apply(in)
	return &b, nil
}

// DeletePrompt is the question asked before removing book.
func DeletePrompt(book models.Book) string {
	return fmt.Sprintf("Remove %q from your library?", book.Title)
}

// Delete asks confirm before removing the book. A declined confirmation
// returns [shared.ErrCancelled] without sending a request. On success the
// book is dropped from the list without refetching; on failure the list is
// left as it was.
func (c *Catalog) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	book, err := c.Get(ctx, id)
	if err != nil {
		return err
	}

	ok, err := confirm.Confirm(ctx, DeletePrompt(*book))
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrCancelled
	}

	if err := c.api.DeleteBook(ctx, id); err != nil {
		return err
	}
	if i := c.index(id); i >= 0 {
		c.books = slices.Delete(c.books, i, i+1)
	}
	return nil
}

// Search lists the books matching query. A blank query relists every book.
func (c *Catalog) Search(ctx context.Context, query string) ([]models.Book, error) {
	if strings.TrimSpace(query) == "" {
		return c.Load(ctx)
	}
	return c.api.SearchBooks(ctx, query)
}
