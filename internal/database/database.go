package database

import (
	"time"

	"fieldforce/config"
	"fieldforce/internal/domain"
	"fieldforce/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	// Fix existing users with empty username before unique index is created.
	_ = db.Exec("UPDATE users SET username = CONCAT('user_', id) WHERE username = '' OR username IS NULL")
	return db.AutoMigrate(
		&models.User{},
		&models.UserPresence{},
		&models.UserLocation{},
		&models.LocationRecord{},
		&models.Geofence{},
		&models.GeofenceEvent{},
		&models.Task{},
		&models.TaskAttachment{},
		&models.Meeting{},
		&models.MeetingParticipant{},
		&models.Notification{},
		&models.Report{},
	)
}

// SeedAdmin creates the bootstrap admin account if no admin exists.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("seed admin: hash password")
		return
	}
	admin := &models.User{
		Name:         "Administrator",
		Username:     "admin",
		Email:        "admin@fieldforce.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		logrus.WithError(err).Error("seed admin: create user")
		return
	}
	db.Create(&models.UserPresence{UserID: admin.ID, Status: domain.PresenceOffline, LastSeenAt: time.Now()})
	logrus.Warn("seeded default admin account admin@fieldforce.local; change the password")
}
