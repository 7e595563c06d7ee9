package repository

import (
	"time"

	"fieldforce/internal/models"

	"gorm.io/gorm"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// UpsertLatest stores the user's latest known position.
func (r *LocationRepository) UpsertLatest(loc *models.UserLocation) error {
	return r.db.Save(loc).Error
}

func (r *LocationRepository) GetLatest(userID uint) (*models.UserLocation, error) {
	var loc models.UserLocation
	if err := r.db.Where("user_id = ?", userID).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// AppendRecord adds one sample to the user's trace.
func (r *LocationRepository) AppendRecord(rec *models.LocationRecord) error {
	return r.db.Create(rec).Error
}

// LatestRecord returns the user's most recent sample, used both for the
// stale-sample check and as the prior state for geofence transition
// detection.
func (r *LocationRepository) LatestRecord(userID uint) (*models.LocationRecord, error) {
	var rec models.LocationRecord
	err := r.db.Where("user_id = ?", userID).
		Order("recorded_at DESC").First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Trace returns the user's samples in [from, to], ordered by recorded_at
// ascending, satisfying the aggregation precondition.
func (r *LocationRepository) Trace(userID uint, from, to time.Time) ([]models.LocationRecord, error) {
	var list []models.LocationRecord
	err := r.db.Where("user_id = ? AND recorded_at >= ? AND recorded_at <= ?", userID, from, to).
		Order("recorded_at ASC").Find(&list).Error
	return list, err
}
