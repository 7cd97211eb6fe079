package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/tasks"
	"github.com/urfave/cli/v3"
)

// period parses s, defaulting to the current year.
func (r *Runner) period(s string) (models.Period, error) {
	if strings.TrimSpace(s) == "" {
		return models.Yearly(r.now().Year()), nil
	}
	p, err := models.ParsePeriod(s)
	if err != nil {
		return models.Period{}, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return p, nil
}

func (r *Runner) goals(p models.Period) (*tasks.GoalTracker, error) {
	client, err := r.api()
	if err != nil {
		return nil, err
	}
	return tasks.NewGoalTracker(client, r.validator, p), nil
}

func (r *Runner) writeGoal(p models.Period, status *models.GoalProgress) {
	if status == nil {
		r.writePlain("No goal set for %s\n", p)
		return
	}
	r.writePlain("Goal for %s: %d of %d books (%.0f%%)\n", p, status.Current, status.Target, status.Percent())
	if status.IsCompleted {
		r.writePlain("✓ Completed\n")
	}
}

// GoalsSet stores a reading target and prints the progress towards it.
func (r *Runner) GoalsSet(ctx context.Context, cmd *cli.Command) error {
	p, err := r.period(cmd.String("period"))
	if err != nil {
		return err
	}
	tracker, err := r.goals(p)
	if err != nil {
		return err
	}

	status, err := tracker.Set(ctx, p, cmd.Int("target"))
	if err != nil {
		return err
	}
	r.logger.Info("goal set", "period", p.String(), "target", cmd.Int("target"))
	r.writeGoal(p, status)
	return nil
}

// GoalsShow prints the progress of a period's goal.
func (r *Runner) GoalsShow(ctx context.Context, cmd *cli.Command) error {
	p, err := r.period(cmd.StringArg("period"))
	if err != nil {
		return err
	}
	tracker, err := r.goals(p)
	if err != nil {
		return err
	}

	status, err := tracker.Select(ctx, p)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}
	r.writeGoal(p, status)
	return nil
}
