package repository

import (
	"fieldforce/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("google_id = ?", googleID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListByRole returns users with any of the given roles.
func (r *UserRepository) ListByRole(roles ...string) ([]models.User, error) {
	var list []models.User
	err := r.db.Where("role IN ?", roles).Order("name").Find(&list).Error
	return list, err
}

// ListEmployees returns all field employees with their presence and latest
// location preloaded, for the admin overview.
func (r *UserRepository) ListEmployees() ([]models.User, error) {
	var list []models.User
	err := r.db.Preload("Presence").Preload("Location").
		Where("role = ?", "EMPLOYEE").Order("name").Find(&list).Error
	return list, err
}

// SupervisorsOf returns the supervisor chain recipients for an employee:
// their direct supervisor (if any) plus all admins.
func (r *UserRepository) SupervisorsOf(userID uint) ([]models.User, error) {
	u, err := r.GetByID(userID)
	if err != nil {
		return nil, err
	}
	var list []models.User
	q := r.db.Where("role = ?", "ADMIN")
	if u.SupervisorID != nil {
		q = q.Or("id = ?", *u.SupervisorID)
	}
	err = q.Find(&list).Error
	return list, err
}
