package models

import (
	"time"

	"gorm.io/gorm"
)

// UserLocation is the latest known position per user, upserted on every
// ingest. Separate lat/lng columns for portability and Haversine queries.
type UserLocation struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Latitude          float64        `gorm:"type:decimal(10,8);not null;index:idx_location_lat_lng" json:"latitude"`
	Longitude         float64        `gorm:"type:decimal(11,8);not null;index:idx_location_lat_lng" json:"longitude"`
	AccuracyMeters    float64        `gorm:"type:decimal(8,2)" json:"accuracy_meters"`
	BatteryPercent    *float64       `gorm:"type:decimal(5,2)" json:"battery_percent"`
	IsLocationVisible bool           `gorm:"default:true" json:"is_location_visible"`
	LastUpdatedAt     time.Time      `gorm:"not null;index" json:"last_updated_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserLocation) TableName() string {
	return "user_locations"
}

// LocationRecord is one GPS reading in a user's trace. Optional sensor
// fields are nullable so a missing reading is distinguishable from zero.
type LocationRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index:idx_trace_user_time" json:"user_id"`
	Latitude       float64   `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude      float64   `gorm:"type:decimal(11,8);not null" json:"longitude"`
	RecordedAt     time.Time `gorm:"not null;index:idx_trace_user_time" json:"recorded_at"`
	AccuracyMeters *float64  `gorm:"type:decimal(8,2)" json:"accuracy_meters"`
	SpeedMps       *float64  `gorm:"type:decimal(8,2)" json:"speed_mps"`
	HeadingDeg     *float64  `gorm:"type:decimal(6,2)" json:"heading_deg"`
	BatteryPercent *float64  `gorm:"type:decimal(5,2)" json:"battery_percent"`
	CreatedAt      time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LocationRecord) TableName() string {
	return "location_records"
}
