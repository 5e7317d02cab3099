package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstay/service-booking/internal/domain"
	userDomain "github.com/openstay/service-booking/internal/domain/user"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email             string    `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash      string    `gorm:"not null;size:255"`
	FirstName         string    `gorm:"size:100"`
	LastName          string    `gorm:"size:100"`
	PhoneNumber       string    `gorm:"size:30"`
	ProfilePictureURL string    `gorm:"size:500"`
	Bio               string    `gorm:"type:text"`
	IsHost            bool      `gorm:"not null;default:false"`
	IsStaff           bool      `gorm:"not null;default:false"`
	Version           int64     `gorm:"not null;default:1"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID retrieves a user by their unique identifier.
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	var model UserModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id.String())
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toDomainUser(&model), nil
}

// FindByEmail retrieves a user by their email address.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var model UserModel
	if err := dbFrom(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return toDomainUser(&model), nil
}

// Save persists a new user. A duplicate email surfaces as a conflict.
func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	if err := dbFrom(ctx, r.db).Create(toUserModel(u)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("email is already registered")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Update persists changes to an existing user with optimistic locking.
func (r *GormUserRepository) Update(ctx context.Context, u *userDomain.User) error {
	model := toUserModel(u)

	expectedVersion := u.Version() - 1
	result := dbFrom(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"first_name":          model.FirstName,
			"last_name":           model.LastName,
			"phone_number":        model.PhoneNumber,
			"profile_picture_url": model.ProfilePictureURL,
			"bio":                 model.Bio,
			"is_host":             model.IsHost,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("user was modified by another transaction")
	}
	return nil
}

// --- Conversions ---

func toUserModel(u *userDomain.User) *UserModel {
	return &UserModel{
		ID:                u.ID(),
		Email:             u.Email(),
		PasswordHash:      u.PasswordHash(),
		FirstName:         u.FirstName(),
		LastName:          u.LastName(),
		PhoneNumber:       u.PhoneNumber(),
		ProfilePictureURL: u.ProfilePictureURL(),
		Bio:               u.Bio(),
		IsHost:            u.IsHost(),
		IsStaff:           u.IsStaff(),
		Version:           u.Version(),
		CreatedAt:         u.CreatedAt(),
		UpdatedAt:         u.UpdatedAt(),
	}
}

func toDomainUser(m *UserModel) *userDomain.User {
	return userDomain.Reconstruct(
		m.ID,
		m.Email, m.PasswordHash, m.FirstName, m.LastName,
		m.PhoneNumber, m.ProfilePictureURL, m.Bio,
		m.IsHost, m.IsStaff,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}
