// Package taskflow owns every task status transition. Handlers and the
// background refresher call into it with an explicit "now" so the policy is
// testable with fixed timestamps.
package taskflow

import (
	"errors"
	"time"

	"fieldforce/internal/domain"
	"fieldforce/internal/models"
)

var (
	ErrNotStartable  = errors.New("task can only be started from NOT_STARTED")
	ErrNotPausable   = errors.New("task can only be paused while IN_PROGRESS")
	ErrNotResumable  = errors.New("task can only be resumed from PAUSED")
	ErrNotCompleting = errors.New("task can only be completed from IN_PROGRESS or PAUSED")
)

// Change describes what a refresh pass did to a task.
type Change string

const (
	ChangeNone            Change = ""
	ChangePlanned         Change = "PLANNED"
	ChangeActivated       Change = "ACTIVATED"        // window opened, NOT_STARTED
	ChangeForwarded       Change = "FORWARDED"        // went PENDING, due date pushed
	ChangeBudgetCompleted Change = "BUDGET_COMPLETED" // time budget consumed
)

// ActiveMinutes is the wall time since started_at minus accumulated pause
// duration, including an in-flight pause.
func ActiveMinutes(t *models.Task, now time.Time) int {
	if t.StartedAt == nil {
		return 0
	}
	pauseSec := t.TotalPauseSeconds
	if t.PausedAt != nil {
		pauseSec += int64(now.Sub(*t.PausedAt).Seconds())
	}
	active := now.Sub(*t.StartedAt) - time.Duration(pauseSec)*time.Second
	if active < 0 {
		return 0
	}
	return int(active.Minutes())
}

// Refresh applies the wall-clock policy to one task and reports the change.
// Completed is terminal and never touched.
func Refresh(t *models.Task, now time.Time) Change {
	if t.Status == domain.TaskCompleted {
		return ChangeNone
	}

	// Budget completion wins over everything, including overdue forwarding.
	if t.Status == domain.TaskInProgress && t.TimeBudgetMinutes > 0 &&
		ActiveMinutes(t, now) >= t.TimeBudgetMinutes {
		completedAt := now
		t.Status = domain.TaskCompleted
		t.CompletedAt = &completedAt
		return ChangeBudgetCompleted
	}

	switch {
	case now.Before(t.StartDate):
		if t.Status == domain.TaskNotStarted || t.Status == domain.TaskPending {
			t.Status = domain.TaskPlanned
			return ChangePlanned
		}
	case !now.After(t.EndDate):
		if t.Status == domain.TaskPlanned || t.Status == domain.TaskPending {
			t.Status = domain.TaskNotStarted
			return ChangeActivated
		}
	default: // now > EndDate
		switch t.Status {
		case domain.TaskNotStarted, domain.TaskInProgress, domain.TaskPaused:
			forwardedAt := now
			if t.OriginalDueDate == nil {
				orig := t.DueDate
				t.OriginalDueDate = &orig
			}
			t.Status = domain.TaskPending
			t.ForwardedAt = &forwardedAt
			t.DueDate = now.Add(domain.OverdueForwardHours * time.Hour)
			return ChangeForwarded
		}
	}
	return ChangeNone
}

// Start moves NOT_STARTED to IN_PROGRESS.
func Start(t *models.Task, now time.Time) error {
	if t.Status != domain.TaskNotStarted {
		return ErrNotStartable
	}
	startedAt := now
	t.Status = domain.TaskInProgress
	t.StartedAt = &startedAt
	return nil
}

// Pause moves IN_PROGRESS to PAUSED and marks the pause start.
func Pause(t *models.Task, now time.Time) error {
	if t.Status != domain.TaskInProgress {
		return ErrNotPausable
	}
	pausedAt := now
	t.Status = domain.TaskPaused
	t.PausedAt = &pausedAt
	return nil
}

// Resume moves PAUSED back to IN_PROGRESS, accruing the pause into the
// running total.
func Resume(t *models.Task, now time.Time) error {
	if t.Status != domain.TaskPaused {
		return ErrNotResumable
	}
	if t.PausedAt != nil {
		t.TotalPauseSeconds += int64(now.Sub(*t.PausedAt).Seconds())
	}
	t.Status = domain.TaskInProgress
	t.PausedAt = nil
	return nil
}

// Complete finishes an IN_PROGRESS or PAUSED task. A pending pause is
// accrued before closing the work clock.
func Complete(t *models.Task, now time.Time) error {
	if t.Status != domain.TaskInProgress && t.Status != domain.TaskPaused {
		return ErrNotCompleting
	}
	if t.PausedAt != nil {
		t.TotalPauseSeconds += int64(now.Sub(*t.PausedAt).Seconds())
		t.PausedAt = nil
	}
	completedAt := now
	t.Status = domain.TaskCompleted
	t.CompletedAt = &completedAt
	return nil
}
