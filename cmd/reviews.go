package main

import (
	"context"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/tasks"
	"github.com/urfave/cli/v3"
)

func (r *Runner) reviews() (*tasks.ReviewCollector, error) {
	client, err := r.api()
	if err != nil {
		return nil, err
	}
	return tasks.NewReviewCollector(client, r.validator, r.session), nil
}

// ReviewsList prints the reviews of a book, marking the user's own.
func (r *Runner) ReviewsList(ctx context.Context, cmd *cli.Command) error {
	id, err := bookID(cmd)
	if err != nil {
		return err
	}
	collector, err := r.reviews()
	if err != nil {
		return err
	}

	reviews, err := collector.List(ctx, id)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(reviews, cmd.Bool("pretty"))
	}

	if len(reviews) == 0 {
		r.writePlain("No reviews yet\n")
		return nil
	}
	for _, rv := range reviews {
		who := ""
		if collector.IsOwn(id, rv) {
			who = " (you)"
		}
		date := ""
		if !rv.CreatedAt.IsZero() {
			date = "  " + rv.CreatedAt.Format("2006-01-02")
		}
		r.writePlain("%s%s%s\n  %s\n", rv.Stars(), who, date, rv.Comment)
	}
	if collector.CanReview(id) {
		r.writePlain("\nYou have not reviewed this book yet\n")
	}
	return nil
}

// ReviewsAdd posts the user's review. A second review of the same book is
// refused before any request is sent.
func (r *Runner) ReviewsAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := bookID(cmd)
	if err != nil {
		return err
	}
	collector, err := r.reviews()
	if err != nil {
		return err
	}

	rating := cmd.Int("rating")
	if err := collector.Submit(ctx, id, rating, cmd.String("comment")); err != nil {
		return err
	}
	return r.writePlain("✓ Review posted %s\n", models.Stars(rating))
}

// Dashboard prints the reading statistics.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	client, err := r.api()
	if err != nil {
		return err
	}
	stats, err := client.Dashboard(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(stats, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Reading Dashboard")
	r.writePlain("Total books:       %d\n", stats.TotalBooks)
	r.writePlain("Currently reading: %d\n", stats.CurrentlyReading)
	r.writePlain("Finished:          %d\n", stats.BooksFinished)
	r.writePlain("Average rating:    %.1f\n", stats.AverageRating)
	r.writePlain("Goals set:         %d\n", stats.GoalsSetCount)
	if stats.YearlyTarget > 0 {
		r.writePlain("Yearly target:     %d\n", stats.YearlyTarget)
	}
	if stats.MonthlyTarget > 0 {
		r.writePlain("This month:        %d of %d (%.0f%%)\n",
			stats.MonthlyFinished, stats.MonthlyTarget, models.GoalPercent(stats.MonthlyFinished, stats.MonthlyTarget))
	}
	return nil
}
