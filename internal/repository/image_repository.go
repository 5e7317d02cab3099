package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstay/service-booking/internal/domain"
	propertyDomain "github.com/openstay/service-booking/internal/domain/property"
)

// PropertyImageModel is the GORM model for the property_images table.
type PropertyImageModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID `gorm:"type:uuid;index;not null"`
	ImageURL   string    `gorm:"type:text;not null"`
	IsPrimary  bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PropertyImageModel) TableName() string {
	return "property_images"
}

// GormImageRepository is the GORM-based implementation of ImageRepository.
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository.
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// FindByID retrieves an image by its unique identifier.
func (r *GormImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*propertyDomain.Image, error) {
	var model PropertyImageModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("PropertyImage", id.String())
		}
		return nil, fmt.Errorf("failed to find property image: %w", err)
	}
	return toDomainImage(&model), nil
}

// FindByPropertyID retrieves all images for a property, primary first.
func (r *GormImageRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*propertyDomain.Image, error) {
	var models []PropertyImageModel
	if err := dbFrom(ctx, r.db).
		Where("property_id = ?", propertyID).
		Order("is_primary DESC, created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find property images: %w", err)
	}
	images := make([]*propertyDomain.Image, len(models))
	for i, m := range models {
		images[i] = toDomainImage(&m)
	}
	return images, nil
}

// Save persists a new image.
func (r *GormImageRepository) Save(ctx context.Context, img *propertyDomain.Image) error {
	if err := dbFrom(ctx, r.db).Create(toImageModel(img)).Error; err != nil {
		return fmt.Errorf("failed to save property image: %w", err)
	}
	return nil
}

// SetPrimary marks the given image primary and clears the flag on the
// property's other images, in one transaction-friendly pair of updates.
func (r *GormImageRepository) SetPrimary(ctx context.Context, propertyID, imageID uuid.UUID) error {
	db := dbFrom(ctx, r.db)
	if err := db.Model(&PropertyImageModel{}).
		Where("property_id = ? AND id <> ?", propertyID, imageID).
		Update("is_primary", false).Error; err != nil {
		return fmt.Errorf("failed to clear primary flags: %w", err)
	}
	result := db.Model(&PropertyImageModel{}).
		Where("property_id = ? AND id = ?", propertyID, imageID).
		Update("is_primary", true)
	if result.Error != nil {
		return fmt.Errorf("failed to set primary image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("PropertyImage", imageID.String())
	}
	return nil
}

// Delete removes an image.
func (r *GormImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Where("id = ?", id).Delete(&PropertyImageModel{}).Error
}

// --- Conversions ---

func toImageModel(img *propertyDomain.Image) *PropertyImageModel {
	return &PropertyImageModel{
		ID:         img.ID(),
		PropertyID: img.PropertyID(),
		ImageURL:   img.ImageURL(),
		IsPrimary:  img.IsPrimary(),
		CreatedAt:  img.CreatedAt(),
	}
}

func toDomainImage(m *PropertyImageModel) *propertyDomain.Image {
	return propertyDomain.ReconstructImage(m.ID, m.PropertyID, m.ImageURL, m.IsPrimary, m.CreatedAt)
}
