package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is a unit of field work with a time-driven status machine. Status
// transitions are owned by the taskflow package; handlers never set Status
// directly.
type Task struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"size:20;not null;index" json:"status"`
	Priority    string `gorm:"size:10;not null;default:'MEDIUM'" json:"priority"`
	AssigneeID  uint   `gorm:"not null;index" json:"assignee_id"`
	CreatedByID uint   `gorm:"not null" json:"created_by_id"`

	// Active window and deadline.
	StartDate       time.Time  `gorm:"not null;index" json:"start_date"`
	EndDate         time.Time  `gorm:"not null;index" json:"end_date"`
	DueDate         time.Time  `gorm:"not null" json:"due_date"`
	OriginalDueDate *time.Time `json:"original_due_date"` // set on first overdue forward
	ForwardedAt     *time.Time `json:"forwarded_at"`

	// Work clock. Pause duration accumulates across pause/resume cycles.
	StartedAt         *time.Time `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	PausedAt          *time.Time `json:"paused_at"`
	TotalPauseSeconds int64      `gorm:"default:0" json:"total_pause_seconds"`
	TimeBudgetMinutes int        `gorm:"default:0" json:"time_budget_minutes"` // 0 = no budget

	// Optional work site for geofence check-in.
	Latitude   *float64 `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude  *float64 `gorm:"type:decimal(11,8)" json:"longitude"`
	GeofenceID *uint    `gorm:"index" json:"geofence_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Assignee    User             `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	CreatedBy   User             `gorm:"foreignKey:CreatedByID" json:"-"`
	Geofence    *Geofence        `gorm:"foreignKey:GeofenceID" json:"geofence,omitempty"`
	Attachments []TaskAttachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskAttachment is an uploaded file (photo evidence, document) linked to a
// task.
type TaskAttachment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TaskID       uint           `gorm:"not null;index" json:"task_id"`
	UploadedByID uint           `gorm:"not null" json:"uploaded_by_id"`
	URL          string         `gorm:"size:512;not null" json:"url"`
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`
	FileName     string         `gorm:"size:255" json:"file_name"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Task       Task `gorm:"foreignKey:TaskID" json:"-"`
	UploadedBy User `gorm:"foreignKey:UploadedByID" json:"-"`
}

func (TaskAttachment) TableName() string {
	return "task_attachments"
}
