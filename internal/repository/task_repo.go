package repository

import (
	"time"

	"fieldforce/internal/models"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(t *models.Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) Update(t *models.Task) error {
	return r.db.Save(t).Error
}

func (r *TaskRepository) Delete(id uint) error {
	return r.db.Delete(&models.Task{}, id).Error
}

func (r *TaskRepository) GetByID(id uint) (*models.Task, error) {
	var t models.Task
	err := r.db.Preload("Geofence").Preload("Attachments").First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) ListByAssignee(userID uint, status string) ([]models.Task, error) {
	q := r.db.Where("assignee_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Task
	err := q.Order("due_date ASC").Find(&list).Error
	return list, err
}

func (r *TaskRepository) ListAll(status string, limit, offset int) ([]models.Task, error) {
	q := r.db.Preload("Assignee")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Task
	err := q.Order("due_date ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListLive returns all tasks the status-refresh pass has to evaluate
// (everything not yet completed).
func (r *TaskRepository) ListLive() ([]models.Task, error) {
	var list []models.Task
	err := r.db.Where("status <> ?", "COMPLETED").Find(&list).Error
	return list, err
}

// ListByAssigneeInWindow returns the assignee's tasks overlapping the given
// period, for reporting.
func (r *TaskRepository) ListByAssigneeInWindow(userID uint, from, to time.Time) ([]models.Task, error) {
	var list []models.Task
	err := r.db.Where("assignee_id = ? AND start_date <= ? AND end_date >= ?", userID, to, from).
		Order("start_date ASC").Find(&list).Error
	return list, err
}

func (r *TaskRepository) AddAttachment(a *models.TaskAttachment) error {
	return r.db.Create(a).Error
}
