package repository

import (
	"fieldforce/internal/models"

	"gorm.io/gorm"
)

type PresenceRepository struct {
	db *gorm.DB
}

func NewPresenceRepository(db *gorm.DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

func (r *PresenceRepository) Upsert(p *models.UserPresence) error {
	return r.db.Save(p).Error
}

func (r *PresenceRepository) GetByUserID(userID uint) (*models.UserPresence, error) {
	var p models.UserPresence
	if err := r.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PresenceRepository) ListOnline() ([]models.UserPresence, error) {
	var list []models.UserPresence
	err := r.db.Where("is_online = ?", true).Find(&list).Error
	return list, err
}
