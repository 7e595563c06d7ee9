package models

import (
	"time"

	"gorm.io/gorm"
)

// Report is the record of a generated PDF report and its storage URL.
type Report struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"` // subject employee
	RequestedByID uint           `gorm:"not null" json:"requested_by_id"`
	PeriodStart   time.Time      `gorm:"not null" json:"period_start"`
	PeriodEnd     time.Time      `gorm:"not null" json:"period_end"`
	URL           string         `gorm:"size:512" json:"url"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	User        User `gorm:"foreignKey:UserID" json:"-"`
	RequestedBy User `gorm:"foreignKey:RequestedByID" json:"-"`
}

func (Report) TableName() string {
	return "reports"
}
