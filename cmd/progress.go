package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ProgressShow prints the reading progress of a book.
func (r *Runner) ProgressShow(ctx context.Context, cmd *cli.Command) error {
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
		return r.writeJSON(progress, cmd.Bool("pretty"))
	}
	r.writePlain("%s\n", book.Label())
	r.writeProgress(*book, progress)
	return nil
}

// ProgressUpdate changes the status and page of a book.
//
// Choosing Want to Read moves the page to 0 and Finished moves it to the last
// page, the same as picking the status in the TUI. An explicit --page is
// then checked against the status rules before anything is sent.
func (r *Runner) ProgressUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := bookID(cmd)
	if err != nil {
		return err
	}
	if !cmd.IsSet("status") && !cmd.IsSet("page") {
		return fmt.Errorf("%w: --status or --page", shared.ErrMissingArgument)
	}
	client, err := r.api()
	if err != nil {
		return err
	}

	book, err := client.GetBook(ctx, id)
	if err != nil {
		return err
	}
	tracker := tasks.NewProgressTracker(client)
	current, err := tracker.Load(ctx, *book)
	if err != nil {
		return err
	}

	form := tasks.FormFor(current)
	if cmd.IsSet("status") {
		status, err := models.ParseStatus(cmd.String("status"))
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		form.SetStatus(status, book.TotalPages)
	}
	if cmd.IsSet("page") {
		form.SetPage(cmd.String("page"))
	}

	state, err := tracker.Submit(ctx, *book, form)
	if err != nil {
		return err
	}

	page := state.Page(book.TotalPages)
	return r.writePlain("✓ %s: %s, page %d of %d (%d%%)\n",
		book.Title, state.Status(), page, book.TotalPages, models.Percent(page, book.TotalPages))
}
