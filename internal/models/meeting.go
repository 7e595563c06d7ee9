package models

import (
	"time"

	"gorm.io/gorm"
)

// Meeting is a video meeting room. Media flows peer to peer; the server
// only relays WebRTC signaling.
type Meeting struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RoomCode    string         `gorm:"uniqueIndex;size:64;not null" json:"room_code"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	HostID      uint           `gorm:"not null;index" json:"host_id"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // SCHEDULED | LIVE | ENDED
	ScheduledAt time.Time      `gorm:"not null;index" json:"scheduled_at"`
	StartedAt   *time.Time     `json:"started_at"`
	EndedAt     *time.Time     `json:"ended_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Host         User                 `gorm:"foreignKey:HostID" json:"host,omitempty"`
	Participants []MeetingParticipant `gorm:"foreignKey:MeetingID" json:"participants,omitempty"`
}

func (Meeting) TableName() string {
	return "meetings"
}

type MeetingParticipant struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MeetingID uint       `gorm:"not null;index:idx_meeting_user,unique" json:"meeting_id"`
	UserID    uint       `gorm:"not null;index:idx_meeting_user,unique" json:"user_id"`
	JoinedAt  *time.Time `json:"joined_at"`
	LeftAt    *time.Time `json:"left_at"`
	CreatedAt time.Time  `json:"created_at"`

	Meeting Meeting `gorm:"foreignKey:MeetingID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (MeetingParticipant) TableName() string {
	return "meeting_participants"
}
