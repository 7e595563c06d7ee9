package taskflow

import (
	"testing"
	"time"

	"fieldforce/internal/domain"
	"fieldforce/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func newTask(status string) *models.Task {
	return &models.Task{
		Status:    status,
		StartDate: base,
		EndDate:   base.Add(8 * time.Hour),
		DueDate:   base.Add(8 * time.Hour),
	}
}

func TestRefreshBeforeWindow(t *testing.T) {
	task := newTask(domain.TaskNotStarted)
	got := Refresh(task, base.Add(-time.Hour))
	assert.Equal(t, ChangePlanned, got)
	assert.Equal(t, domain.TaskPlanned, task.Status)

	// In-flight work is never demoted.
	task = newTask(domain.TaskInProgress)
	assert.Equal(t, ChangeNone, Refresh(task, base.Add(-time.Hour)))
	assert.Equal(t, domain.TaskInProgress, task.Status)
}

func TestRefreshWindowOpens(t *testing.T) {
	for _, status := range []string{domain.TaskPlanned, domain.TaskPending} {
		task := newTask(status)
		got := Refresh(task, base.Add(time.Hour))
		assert.Equal(t, ChangeActivated, got, status)
		assert.Equal(t, domain.TaskNotStarted, task.Status)
	}
	for _, status := range []string{domain.TaskInProgress, domain.TaskPaused, domain.TaskCompleted} {
		task := newTask(status)
		assert.Equal(t, ChangeNone, Refresh(task, base.Add(time.Hour)), status)
		assert.Equal(t, status, task.Status)
	}
}

func TestRefreshOverdueForwarding(t *testing.T) {
	now := base.Add(9 * time.Hour) // past EndDate
	for _, status := range []string{domain.TaskNotStarted, domain.TaskInProgress, domain.TaskPaused} {
		task := newTask(status)
		got := Refresh(task, now)
		require.Equal(t, ChangeForwarded, got, status)
		assert.Equal(t, domain.TaskPending, task.Status)
		require.NotNil(t, task.ForwardedAt)
		assert.Equal(t, now, *task.ForwardedAt)
		require.NotNil(t, task.OriginalDueDate)
		assert.Equal(t, base.Add(8*time.Hour), *task.OriginalDueDate)
		assert.Equal(t, now.Add(24*time.Hour), task.DueDate)
	}

	// Completed and already-Pending tasks are left alone.
	task := newTask(domain.TaskCompleted)
	assert.Equal(t, ChangeNone, Refresh(task, now))
	task = newTask(domain.TaskPending)
	assert.Equal(t, ChangeNone, Refresh(task, now))
}

func TestRefreshSecondForwardKeepsOriginalDue(t *testing.T) {
	task := newTask(domain.TaskNotStarted)
	first := base.Add(9 * time.Hour)
	require.Equal(t, ChangeForwarded, Refresh(task, first))

	// Window extended, task reactivates, then lapses again.
	task.EndDate = first.Add(2 * time.Hour)
	require.Equal(t, ChangeActivated, Refresh(task, first.Add(time.Hour)))
	second := first.Add(3 * time.Hour)
	require.Equal(t, ChangeForwarded, Refresh(task, second))

	assert.Equal(t, base.Add(8*time.Hour), *task.OriginalDueDate)
	assert.Equal(t, second.Add(24*time.Hour), task.DueDate)
}

func TestRefreshBudgetCompletion(t *testing.T) {
	task := newTask(domain.TaskInProgress)
	startedAt := base
	task.StartedAt = &startedAt
	task.TimeBudgetMinutes = 90
	task.TotalPauseSeconds = 600 // 10 minutes paused earlier

	// 95 wall minutes minus 10 paused = 85 active: not done yet.
	assert.Equal(t, ChangeNone, Refresh(task, base.Add(95*time.Minute)))

	// 100 wall minutes minus 10 paused = 90 active: budget consumed, even
	// though the window is still open.
	now := base.Add(100 * time.Minute)
	assert.Equal(t, ChangeBudgetCompleted, Refresh(task, now))
	assert.Equal(t, domain.TaskCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)
}

func TestRefreshBudgetBeatsOverdue(t *testing.T) {
	task := newTask(domain.TaskInProgress)
	startedAt := base
	task.StartedAt = &startedAt
	task.TimeBudgetMinutes = 60

	// Past EndDate and past budget: completion wins over Pending.
	assert.Equal(t, ChangeBudgetCompleted, Refresh(task, base.Add(10*time.Hour)))
	assert.Equal(t, domain.TaskCompleted, task.Status)
}

func TestActiveMinutes(t *testing.T) {
	task := newTask(domain.TaskInProgress)
	assert.Equal(t, 0, ActiveMinutes(task, base)) // never started

	startedAt := base
	task.StartedAt = &startedAt
	task.TotalPauseSeconds = 300
	assert.Equal(t, 55, ActiveMinutes(task, base.Add(time.Hour)))

	// An in-flight pause counts too.
	pausedAt := base.Add(30 * time.Minute)
	task.PausedAt = &pausedAt
	assert.Equal(t, 25, ActiveMinutes(task, base.Add(time.Hour)))
}

func TestManualTransitions(t *testing.T) {
	task := newTask(domain.TaskNotStarted)

	require.NoError(t, Start(task, base))
	assert.Equal(t, domain.TaskInProgress, task.Status)
	require.NotNil(t, task.StartedAt)

	assert.ErrorIs(t, Start(task, base), ErrNotStartable)
	assert.ErrorIs(t, Resume(task, base), ErrNotResumable)

	require.NoError(t, Pause(task, base.Add(10*time.Minute)))
	assert.Equal(t, domain.TaskPaused, task.Status)
	assert.ErrorIs(t, Pause(task, base), ErrNotPausable)

	require.NoError(t, Resume(task, base.Add(25*time.Minute)))
	assert.Equal(t, int64(900), task.TotalPauseSeconds)
	assert.Nil(t, task.PausedAt)

	// Second pause/resume cycle accumulates.
	require.NoError(t, Pause(task, base.Add(30*time.Minute)))
	require.NoError(t, Resume(task, base.Add(35*time.Minute)))
	assert.Equal(t, int64(1200), task.TotalPauseSeconds)

	require.NoError(t, Complete(task, base.Add(time.Hour)))
	assert.Equal(t, domain.TaskCompleted, task.Status)
	assert.ErrorIs(t, Complete(task, base), ErrNotCompleting)
}

func TestCompleteWhilePausedAccruesPause(t *testing.T) {
	task := newTask(domain.TaskNotStarted)
	require.NoError(t, Start(task, base))
	require.NoError(t, Pause(task, base.Add(10*time.Minute)))
	require.NoError(t, Complete(task, base.Add(20*time.Minute)))

	assert.Equal(t, int64(600), task.TotalPauseSeconds)
	assert.Nil(t, task.PausedAt)
	assert.Equal(t, domain.TaskCompleted, task.Status)
}
