package service

import (
	"context"
	"errors"
	"time"

	"fieldforce/internal/domain"
	"fieldforce/internal/metrics"
	"fieldforce/internal/models"
	"fieldforce/internal/repository"
	"fieldforce/internal/taskflow"
	"fieldforce/pkg/clock"
	"fieldforce/pkg/geo"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNotAssignee     = errors.New("task is assigned to another user")
	ErrNoLocation      = errors.New("no known location; send a position update first")
	ErrOutsideGeofence = errors.New("must be inside the task geofence to start")
	ErrBadWindow       = errors.New("end date must not be before start date")
)

// TaskService owns task CRUD and every status change. Transitions go
// through taskflow with the injected clock so the policy is testable.
type TaskService struct {
	tasks     *repository.TaskRepository
	users     *repository.UserRepository
	locations *repository.LocationRepository
	fences    *repository.GeofenceRepository
	notifier  *NotificationService
	clk       clock.Clock
}

func NewTaskService(
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	locations *repository.LocationRepository,
	fences *repository.GeofenceRepository,
	notifier *NotificationService,
	clk clock.Clock,
) *TaskService {
	return &TaskService{tasks: tasks, users: users, locations: locations, fences: fences, notifier: notifier, clk: clk}
}

type TaskInput struct {
	Title             string
	Description       string
	Priority          string
	AssigneeID        uint
	StartDate         time.Time
	EndDate           time.Time
	DueDate           time.Time
	TimeBudgetMinutes int
	Latitude          *float64
	Longitude         *float64
	GeofenceID        *uint
}

// Create stores a new task. Its initial status comes from the same refresh
// policy the background pass uses, so a task created mid-window starts as
// NOT_STARTED rather than PLANNED.
func (s *TaskService) Create(in TaskInput, createdBy uint) (*models.Task, error) {
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrBadWindow
	}
	if _, err := s.users.GetByID(in.AssigneeID); err != nil {
		return nil, err
	}
	if in.GeofenceID != nil {
		if _, err := s.fences.GetByID(*in.GeofenceID); err != nil {
			return nil, err
		}
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if in.DueDate.IsZero() {
		in.DueDate = in.EndDate
	}
	task := &models.Task{
		Title:             in.Title,
		Description:       in.Description,
		Priority:          in.Priority,
		Status:            domain.TaskPlanned,
		AssigneeID:        in.AssigneeID,
		CreatedByID:       createdBy,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		DueDate:           in.DueDate,
		TimeBudgetMinutes: in.TimeBudgetMinutes,
		Latitude:          in.Latitude,
		Longitude:         in.Longitude,
		GeofenceID:        in.GeofenceID,
	}
	taskflow.Refresh(task, s.clk.Now())
	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyTaskAssigned(task.AssigneeID, task.ID, task.Title)
	}
	return task, nil
}

// Start begins work on a task. Tasks bound to a geofence require the
// assignee's latest position to be inside the fence (on-site check-in).
func (s *TaskService) Start(taskID, userID uint) (*models.Task, error) {
	task, err := s.ownedLiveTask(taskID, userID)
	if err != nil {
		return nil, err
	}
	if task.GeofenceID != nil {
		if err := s.checkIn(userID, *task.GeofenceID); err != nil {
			return nil, err
		}
	}
	if err := taskflow.Start(task, s.clk.Now()); err != nil {
		return nil, err
	}
	return task, s.tasks.Update(task)
}

func (s *TaskService) Pause(taskID, userID uint) (*models.Task, error) {
	task, err := s.ownedLiveTask(taskID, userID)
	if err != nil {
		return nil, err
	}
	if err := taskflow.Pause(task, s.clk.Now()); err != nil {
		return nil, err
	}
	return task, s.tasks.Update(task)
}

func (s *TaskService) Resume(taskID, userID uint) (*models.Task, error) {
	task, err := s.ownedLiveTask(taskID, userID)
	if err != nil {
		return nil, err
	}
	if err := taskflow.Resume(task, s.clk.Now()); err != nil {
		return nil, err
	}
	return task, s.tasks.Update(task)
}

func (s *TaskService) Complete(taskID, userID uint) (*models.Task, error) {
	task, err := s.ownedLiveTask(taskID, userID)
	if err != nil {
		return nil, err
	}
	if err := taskflow.Complete(task, s.clk.Now()); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(task); err != nil {
		return nil, err
	}
	s.notifyCompleted(task)
	return task, nil
}

// ownedLiveTask loads the task, verifies ownership, and applies the time
// policy before any manual transition so stale statuses cannot be acted on.
func (s *TaskService) ownedLiveTask(taskID, userID uint) (*models.Task, error) {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task.AssigneeID != userID {
		return nil, ErrNotAssignee
	}
	if change := taskflow.Refresh(task, s.clk.Now()); change != taskflow.ChangeNone {
		if err := s.tasks.Update(task); err != nil {
			return nil, err
		}
	}
	return task, nil
}

func (s *TaskService) checkIn(userID, geofenceID uint) error {
	loc, err := s.locations.GetLatest(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoLocation
		}
		return err
	}
	fence, err := s.fences.GetByID(geofenceID)
	if err != nil {
		return err
	}
	if !geo.IsInside(loc.Latitude, loc.Longitude, fence.Fence()) {
		return ErrOutsideGeofence
	}
	return nil
}

func (s *TaskService) notifyCompleted(task *models.Task) {
	if s.notifier == nil {
		return
	}
	assignee, err := s.users.GetByID(task.AssigneeID)
	if err != nil {
		return
	}
	recipients, err := s.users.SupervisorsOf(task.AssigneeID)
	if err != nil {
		return
	}
	for _, r := range recipients {
		_ = s.notifier.NotifyTaskCompleted(r.ID, task.ID, task.Title, assignee.Name)
	}
}

// RefreshAll applies the wall-clock policy to every live task once.
func (s *TaskService) RefreshAll() error {
	tasks, err := s.tasks.ListLive()
	if err != nil {
		return err
	}
	now := s.clk.Now()
	for i := range tasks {
		task := &tasks[i]
		change := taskflow.Refresh(task, now)
		if change == taskflow.ChangeNone {
			continue
		}
		if err := s.tasks.Update(task); err != nil {
			logrus.WithError(err).WithField("task_id", task.ID).Error("status refresh: save")
			continue
		}
		metrics.TaskTransitions.WithLabelValues(string(change)).Inc()
		if change == taskflow.ChangeForwarded && s.notifier != nil {
			_ = s.notifier.NotifyTaskOverdue(task.AssigneeID, task.ID, task.Title)
		}
		if change == taskflow.ChangeBudgetCompleted {
			s.notifyCompleted(task)
		}
	}
	return nil
}

// RunRefresher drives RefreshAll on a fixed period until the context is
// cancelled.
func (s *TaskService) RunRefresher(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RefreshAll(); err != nil {
				logrus.WithError(err).Error("status refresh pass")
			}
		}
	}
}
