package repository

import (
	"time"

	"fieldforce/internal/models"

	"gorm.io/gorm"
)

type MeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) Create(m *models.Meeting) error {
	return r.db.Create(m).Error
}

func (r *MeetingRepository) Update(m *models.Meeting) error {
	return r.db.Save(m).Error
}

func (r *MeetingRepository) GetByID(id uint) (*models.Meeting, error) {
	var m models.Meeting
	err := r.db.Preload("Participants").Preload("Participants.User").First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MeetingRepository) GetByRoomCode(code string) (*models.Meeting, error) {
	var m models.Meeting
	err := r.db.Preload("Participants").Where("room_code = ?", code).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns meetings the user hosts or is invited to, newest
// first.
func (r *MeetingRepository) ListForUser(userID uint, limit int) ([]models.Meeting, error) {
	var list []models.Meeting
	err := r.db.Preload("Host").
		Joins("LEFT JOIN meeting_participants mp ON mp.meeting_id = meetings.id").
		Where("meetings.host_id = ? OR mp.user_id = ?", userID, userID).
		Group("meetings.id").
		Order("scheduled_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *MeetingRepository) AddParticipant(p *models.MeetingParticipant) error {
	return r.db.Create(p).Error
}

func (r *MeetingRepository) MarkJoined(meetingID, userID uint, at time.Time) error {
	return r.db.Model(&models.MeetingParticipant{}).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Update("joined_at", at).Error
}

func (r *MeetingRepository) MarkLeft(meetingID, userID uint, at time.Time) error {
	return r.db.Model(&models.MeetingParticipant{}).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Update("left_at", at).Error
}

func (r *MeetingRepository) IsParticipant(meetingID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.MeetingParticipant{}).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).Count(&count).Error
	return count > 0, err
}
