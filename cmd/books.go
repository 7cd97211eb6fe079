package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/tasks"
	"github.com/urfave/cli/v3"
)

// bookID reads the id argument.
func bookID(cmd *cli.Command) (int64, error) {
	raw := strings.TrimSpace(cmd.StringArg("id"))
	if raw == "" {
		return 0, fmt.Errorf("%w: book id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: book id must be a positive number, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

func (r *Runner) catalog() (*tasks.Catalog, error) {
	client, err := r.api()
	if err != nil {
		return nil, err
	}
	return tasks.NewCatalog(client, r.validator), nil
}

func (r *Runner) writeBooks(books []models.Book) {
	if len(books) == 0 {
		r.writePlain("No books found\n")
		return
	}
	r.writePlain("%-5s %-32s %-24s %s\n", "ID", "TITLE", "AUTHOR", "PROGRESS")
	for _, b := range books {
		progress := "-"
		if b.Progress != nil {
			entry := models.LibraryEntry{Book: b, Progress: *b.Progress}
			progress = fmt.Sprintf("%s (%d%%)", b.Progress.Status, entry.Percent())
		}
		r.writePlain("%-5d %-32s %-24s %s\n", b.ID, truncate(b.Title, 32), truncate(b.Author, 24), progress)
	}
	r.writePlain("\n%d book(s)\n", len(books))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// BooksList prints the library.
func (r *Runner) BooksList(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog()
	if err != nil {
		return err
	}
	books, err := catalog.Load(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, cmd.Bool("pretty"))
	}
	r.writeBooks(books)
	return nil
}

// BooksSearch prints the books matching the query. A blank query lists everything.
func (r *Runner) BooksSearch(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog()
	if err != nil {
		return err
	}
	query := cmd.StringArg("query")
	r.logger.Debug("searching books", "query", query)

	books, err := catalog.Search(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, cmd.Bool("pretty"))
	}
	r.writeBooks(books)
	return nil
}

// BooksShow prints one book and its reading progress.
func (r *Runner) BooksShow(ctx context.Context, cmd *cli.Command) error {
	id, err := bookID(cmd)
	if err != nil {
		return err
	}
	client, err := r.api()
	if err != nil {
		return err
	}

	book, err := client.GetBook(ctx, id)
	if err != nil {
		return err
	}
	progress, err := tasks.NewProgressTracker(client).Load(ctx, *book)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		book.Progress = &progress
		return r.writeJSON(book, cmd.Bool("pretty"))
	}

	r.writePlainHeader(book.Label())
	if book.ISBN != "" {
		r.writePlain("ISBN:      %s\n", book.ISBN)
	}
	if book.Genre != "" {
		r.writePlain("Genre:     %s\n", book.Genre)
	}
	if book.PublicationYear != 0 {
		r.writePlain("Published: %d\n", book.PublicationYear)
	}
	r.writePlain("Pages:     %d\n", book.TotalPages)
	r.writeProgress(*book, progress)
	return nil
}

func (r *Runner) writeProgress(book models.Book, p models.Progress) {
	state := models.StateOf(p)
	page := state.Page(book.TotalPages)
	r.writePlain("Status:    %s\n", state.Status())
	r.writePlain("Progress:  page %d of %d (%d%%)\n", page, book.TotalPages, models.Percent(page, book.TotalPages))
}

// inputFromFlags overlays the flags that were set onto base.
func inputFromFlags(cmd *cli.Command, base models.BookInput) models.BookInput {
	if cmd.IsSet("title") {
		base.Title = cmd.String("title")
	}
	if cmd.IsSet("author") {
		base.Author = cmd.String("author")
	}
	if cmd.IsSet("isbn") {
		base.ISBN = cmd.String("isbn")
	}
	if cmd.IsSet("genre") {
		base.Genre = cmd.String("genre")
	}
	if cmd.IsSet("year") {
		base.PublicationYear = cmd.Int("year")
	}
	if cmd.IsSet("pages") {
		base.TotalPages = cmd.Int("pages")
	}
	return base
}

// BooksAdd adds a book after validating it locally.
func (r *Runner) BooksAdd(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog()
	if err != nil {
		return err
	}

	book, err := catalog.Add(ctx, inputFromFlags(cmd, models.BookInput{}))
	if err != nil {
		return err
	}
	r.logger.Info("book added", "id", book.ID)
	return r.writePlain("✓ Added %s (id %d)\n", book.Label(), book.ID)
}

// BooksEdit updates a book. Flags that are not given keep the stored value.
func (r *Runner) BooksEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := bookID(cmd)
	if err != nil {
		return err
	}
	catalog, err := r.catalog()
	if err != nil {
		return err
	}

	current, err := catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	book, err := catalog.Edit(ctx, id, inputFromFlags(cmd, models.InputFrom(*current)))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Updated %s\n", book.Label())
}

// BooksDelete removes a book after confirmation, unless --yes is given.
func (r *Runner) BooksDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := bookID(cmd)
	if err != nil {
		return err
	}
	catalog, err := r.catalog()
	if err != nil {
		return err
	}

	var confirm tasks.Confirmer = r
	if cmd.Bool("yes") {
		confirm = tasks.Always
	}
	if err := catalog.Delete(ctx, id, confirm); err != nil {
		return err
	}
	return r.writePlain("✓ Book %d removed\n", id)
}
