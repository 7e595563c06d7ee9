package repository

import (
	"time"

	"fieldforce/internal/models"

	"gorm.io/gorm"
)

type GeofenceRepository struct {
	db *gorm.DB
}

func NewGeofenceRepository(db *gorm.DB) *GeofenceRepository {
	return &GeofenceRepository{db: db}
}

func (r *GeofenceRepository) Create(g *models.Geofence) error {
	return r.db.Create(g).Error
}

func (r *GeofenceRepository) Update(g *models.Geofence) error {
	return r.db.Save(g).Error
}

func (r *GeofenceRepository) Delete(id uint) error {
	return r.db.Delete(&models.Geofence{}, id).Error
}

func (r *GeofenceRepository) GetByID(id uint) (*models.Geofence, error) {
	var g models.Geofence
	if err := r.db.First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GeofenceRepository) List() ([]models.Geofence, error) {
	var list []models.Geofence
	err := r.db.Order("name").Find(&list).Error
	return list, err
}

// ListActive returns fences currently evaluated against location samples.
func (r *GeofenceRepository) ListActive() ([]models.Geofence, error) {
	var list []models.Geofence
	err := r.db.Where("is_active = ?", true).Find(&list).Error
	return list, err
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(e *models.GeofenceEvent) error {
	return r.db.Create(e).Error
}

func (r *EventRepository) ListByUser(userID uint, from, to time.Time) ([]models.GeofenceEvent, error) {
	var list []models.GeofenceEvent
	err := r.db.Preload("Geofence").
		Where("user_id = ? AND occurred_at >= ? AND occurred_at <= ?", userID, from, to).
		Order("occurred_at DESC").Find(&list).Error
	return list, err
}

func (r *EventRepository) ListByGeofence(geofenceID uint, limit int) ([]models.GeofenceEvent, error) {
	var list []models.GeofenceEvent
	err := r.db.Where("geofence_id = ?", geofenceID).
		Order("occurred_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
