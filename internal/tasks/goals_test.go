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

func TestGoalTracker(t *testing.T) {
	ctx := context.Background()
	year := models.Yearly(2025)
	march := models.Monthly(2025, 3)

	t.Run("Set", func(t *testing.T) {
		t.Run("target zero is rejected locally", func(t *testing.T) {
			api := newFakeAPI()
			g := NewGoalTracker(api, testValidator(), year)

			_, err := g.Set(ctx, year, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
			assert.Contains(t, err.Error(), "must be at least 1")
			assert.Empty(t, api.calls)
		})

		t.Run("month out of range is rejected locally", func(t *testing.T) {
			api := newFakeAPI()
			g := NewGoalTracker(api, testValidator(), year)

			_, err := g.Set(ctx, models.Monthly(2025, 13), 2)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
			assert.Empty(t, api.calls)
		})

		t.Run("stores then fetches progress", func(t *testing.T) {
			api := newFakeAPI()
			g := NewGoalTracker(api, testValidator(), year)

			status, err := g.Set(ctx, march, 4)
			require.NoError(t, err)
			require.NotNil(t, status)
			assert.Equal(t, 4, status.Target)
			assert.Equal(t, march, g.Selected())
			assert.Equal(t, []string{"SetGoal", "GoalProgress"}, api.calls)
		})
	})

	t.Run("Select", func(t *testing.T) {
		t.Run("fetches only when the period changes", func(t *testing.T) {
			api := newFakeAPI()
			api.goals[year] = models.GoalProgress{Year: 2025, Target: 12, Current: 3}
			api.goals[march] = models.GoalProgress{Year: 2025, Month: 3, Target: 2, Current: 2, IsCompleted: true}
			g := NewGoalTracker(api, testValidator(), year)

			_, err := g.Select(ctx, year)
			require.NoError(t, err)
			_, err = g.Select(ctx, year)
			require.NoError(t, err)
			assert.Equal(t, 1, api.called("GoalProgress"))

			status, err := g.Select(ctx, march)
			require.NoError(t, err)
			assert.Equal(t, 2, api.called("GoalProgress"))
			assert.True(t, status.IsCompleted)
		})

		t.Run("missing goal is a nil status", func(t *testing.T) {
			api := newFakeAPI()
			g := NewGoalTracker(api, testValidator(), year)

			status, err := g.Select(ctx, march)
			require.NoError(t, err)
			assert.Nil(t, status)
			assert.Nil(t, g.Status())
		})

		t.Run("failed fetch is retried on next select", func(t *testing.T) {
			api := newFakeAPI()
			api.failOn["GoalProgress"] = shared.ErrUnreachable
			g := NewGoalTracker(api, testValidator(), year)

			_, err := g.Select(ctx, year)
			assert.True(t, errors.Is(err, shared.ErrUnreachable))

			delete(api.failOn, "GoalProgress")
			_, err = g.Select(ctx, year)
			require.NoError(t, err)
			assert.Equal(t, 2, api.called("GoalProgress"))
		})
	})

	t.Run("completion is taken verbatim", func(t *testing.T) {
		api := newFakeAPI()
		api.goals[year] = models.GoalProgress{Year: 2025, Target: 10, Current: 12, IsCompleted: false}
		g := NewGoalTracker(api, testValidator(), year)

		status, err := g.Refresh(ctx)
		require.NoError(t, err)
		assert.False(t, status.IsCompleted)
		assert.Equal(t, 100.0, status.Percent())
	})
}
