package models

import (
	"time"

	"fieldforce/pkg/geo"

	"gorm.io/gorm"
)

// Geofence is a named circular region. Radius is validated at creation;
// the geo package assumes it is positive.
type Geofence struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:128;not null" json:"name"`
	CenterLat    float64        `gorm:"type:decimal(10,8);not null" json:"center_lat"`
	CenterLng    float64        `gorm:"type:decimal(11,8);not null" json:"center_lng"`
	RadiusMeters float64        `gorm:"type:decimal(10,2);not null" json:"radius_meters"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	CreatedByID  uint           `gorm:"not null" json:"created_by_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"-"`
}

func (Geofence) TableName() string {
	return "geofences"
}

// Fence converts the stored region to the pure analytics representation.
func (g *Geofence) Fence() geo.Fence {
	return geo.Fence{
		ID:           g.ID,
		CenterLat:    g.CenterLat,
		CenterLng:    g.CenterLng,
		RadiusMeters: g.RadiusMeters,
	}
}

// GeofenceEvent records one enter/exit edge for a (user, fence) pair.
type GeofenceEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index:idx_event_user_time" json:"user_id"`
	GeofenceID     uint      `gorm:"not null;index" json:"geofence_id"`
	EventType      string    `gorm:"size:10;not null" json:"event_type"` // ENTER | EXIT
	Latitude       float64   `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude      float64   `gorm:"type:decimal(11,8);not null" json:"longitude"`
	DistanceMeters float64   `gorm:"type:decimal(10,2)" json:"distance_meters"` // to fence center
	OccurredAt     time.Time `gorm:"not null;index:idx_event_user_time" json:"occurred_at"`
	CreatedAt      time.Time `json:"created_at"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Geofence Geofence `gorm:"foreignKey:GeofenceID" json:"geofence,omitempty"`
}

func (GeofenceEvent) TableName() string {
	return "geofence_events"
}
