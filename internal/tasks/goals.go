package tasks

import (
	"context"
	"errors"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/validation"
)

// GoalAPI is the part of the REST client the goal tracker uses.
type GoalAPI interface {
	SetGoal(ctx context.Context, in models.GoalInput) error
	GoalProgress(ctx context.Context, p models.Period) (*models.GoalProgress, error)
}

// GoalTracker follows the goal of one selected period.
type GoalTracker struct {
	api      GoalAPI
	validate *validation.Validator
	selected models.Period
	status   *models.GoalProgress
	loaded   bool
}

// NewGoalTracker creates a tracker with period selected but not yet fetched.
func NewGoalTracker(api GoalAPI, v *validation.Validator, period models.Period) *GoalTracker {
	if v == nil {
		v = validation.New()
	}
	return &GoalTracker{api: api, validate: v, selected: period}
}

// Selected is the period currently shown.
func (g *GoalTracker) Selected() models.Period { return g.selected }

// Status is the last fetched progress, or nil when the period has no goal.
func (g *GoalTracker) Status() *models.GoalProgress { return g.status }

// Select switches to period and fetches its progress. Selecting the period
// already loaded does not send a request.
func (g *GoalTracker) Select(ctx context.Context, period models.Period) (*models.GoalProgress, error) {
	if err := g.validatePeriod(period); err != nil {
		return nil, err
	}
	if g.loaded && period == g.selected {
		return g.status, nil
	}
	g.selected = period
	return g.Refresh(ctx)
}

// Refresh refetches the selected period. A period without a goal yields a nil
// status and no error.
func (g *GoalTracker) Refresh(ctx context.Context) (*models.GoalProgress, error) {
	period := g.selected
	status, err := g.api.GoalProgress(ctx, period)
	if errors.Is(err, shared.ErrNotFound) {
		status, err = nil, nil
	}
	if err != nil {
		g.loaded = false
		return nil, err
	}
	g.status = status
	g.loaded = true
	return status, nil
}

// Set stores a target for period, selects it and fetches its progress.
func (g *GoalTracker) Set(ctx context.Context, period models.Period, target int) (*models.GoalProgress, error) {
	in := models.GoalFor(period, target)
	if err := g.validate.Validate(in); err != nil {
		return nil, err
	}
	if err := g.api.SetGoal(ctx, in); err != nil {
		return nil, err
	}
	g.selected = period
	return g.Refresh(ctx)
}

func (g *GoalTracker) validatePeriod(p models.Period) error {
	return g.validate.Validate(models.GoalFor(p, 1))
}
