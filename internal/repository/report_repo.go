package repository

import (
	"fieldforce/internal/models"

	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(rep *models.Report) error {
	return r.db.Create(rep).Error
}

func (r *ReportRepository) ListByUser(userID uint, limit int) ([]models.Report, error) {
	var list []models.Report
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
