package models

import (
	"fmt"
	"strings"
	"time"
)

// Book is a catalog entry owned by one user.
type Book struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id,omitempty"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn,omitempty"`
	Genre           string    `json:"genre,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	TotalPages      int       `json:"total_pages"`
	Progress        *Progress `json:"progress,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}

// Label renders "Title by Author" for lists and prompts.
func (b Book) Label() string {
	return fmt.Sprintf("%s by %s", b.Title, b.Author)
}

// BookInput is the body of POST /books and PUT /books/:id.
type BookInput struct {
	Title           string `json:"title" validate:"required,min=2,notnumeric"`
	Author          string `json:"author" validate:"required,min=2"`
	ISBN            string `json:"isbn,omitempty"`
	Genre           string `json:"genre,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty" validate:"omitempty,pubyear"`
	TotalPages      int    `json:"total_pages" validate:"gt=0"`
}

// Normalize trims surrounding whitespace from every text field.
func (in BookInput) Normalize() BookInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Genre = strings.TrimSpace(in.Genre)
	return in
}

// InputFrom returns the editable fields of b, used to prefill edit forms.
func InputFrom(b Book) BookInput {
	return BookInput{
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Genre:           b.Genre,
		PublicationYear: b.PublicationYear,
		TotalPages:      b.TotalPages,
	}
}

// Apply copies the fields of in onto b.
func (b *Book) Apply(in BookInput) {
	b.Title = in.Title
	b.Author = in.Author
	b.ISBN = in.ISBN
	b.Genre = in.Genre
	b.PublicationYear = in.PublicationYear
	b.TotalPages = in.TotalPages
}

// LibraryEntry joins a book with its current reading progress.
type LibraryEntry struct {
	Book     Book
	Progress Progress
}

// Percent is the reading percentage of the entry.
func (e LibraryEntry) Percent() int {
	return Percent(e.Progress.CurrentPage, e.Book.TotalPages)
}
