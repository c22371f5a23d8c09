package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/bugfree-api/internal/constants"
	"github.com/yukikurage/bugfree-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the invite transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrRecordInvite is returned when writing the invite record fails inside the invite transaction.
	ErrRecordInvite = errors.New("user repository: record invite failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateInvited creates an inactive user and upserts the invite record atomically.
func (r *GormUserRepository) CreateInvited(user *models.User, invite *models.Invite) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "role"}),
		}).Create(invite).Error
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRecordInvite, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email, ignoring case
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Activate saves the user and accepts their pending project assignments
func (r *GormUserRepository) Activate(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		user.IsActive = true
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}

		return tx.Model(&models.ProjectAssignment{}).
			Where("user_id = ? AND status = ?", user.ID, constants.AssignmentPending).
			Update("status", constants.AssignmentAccepted).Error
	})
}

// ListActive lists active users ordered by name
func (r *GormUserRepository) ListActive() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("is_active = ?", true).
		Order("name ASC").
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
