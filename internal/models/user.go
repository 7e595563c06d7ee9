package models

import (
	"time"

	"fieldforce/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:128;not null" json:"name"`
	Username     string         `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // ADMIN | SUPERVISOR | EMPLOYEE
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"`      // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	Phone        string         `gorm:"size:32" json:"phone"`
	FCMToken     string         `gorm:"size:512" json:"-"` // For push notifications
	SupervisorID *uint          `gorm:"index" json:"supervisor_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Supervisor *User         `gorm:"foreignKey:SupervisorID" json:"-"`
	Location   *UserLocation `gorm:"foreignKey:UserID" json:"location,omitempty"`
	Presence   *UserPresence `gorm:"foreignKey:UserID" json:"presence,omitempty"`
}

func (u *User) IsAdmin() bool      { return u.Role == domain.RoleAdmin }
func (u *User) IsSupervisor() bool { return u.Role == domain.RoleSupervisor }
func (u *User) IsEmployee() bool   { return u.Role == domain.RoleEmployee }
