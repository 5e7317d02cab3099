package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openstay/service-booking/internal/domain"
	propertyDomain "github.com/openstay/service-booking/internal/domain/property"
)

// PropertyModel is the GORM model for the properties table.
type PropertyModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	HostID             uuid.UUID       `gorm:"type:uuid;index;not null"`
	Title              string          `gorm:"not null;size:255"`
	Description        string          `gorm:"type:text"`
	Address            string          `gorm:"size:255"`
	City               string          `gorm:"size:100;index:idx_properties_city_available"`
	State              string          `gorm:"size:100"`
	Country            string          `gorm:"size:100"`
	ZipCode            string          `gorm:"size:20"`
	PricePerNightCents int64           `gorm:"not null;index"`
	MaxGuests          int             `gorm:"not null"`
	Bedrooms           int             `gorm:"not null"`
	Bathrooms          float64         `gorm:"type:decimal(3,1)"`
	IsAvailable        bool            `gorm:"not null;default:true;index:idx_properties_city_available"`
	PropertyType       string          `gorm:"size:50"`
	Amenities          json.RawMessage `gorm:"type:jsonb;not null;default:'[]'"`
	Version            int64           `gorm:"not null;default:1"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PropertyModel) TableName() string {
	return "properties"
}

// GormPropertyRepository is the GORM-based implementation of PropertyRepository.
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository.
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID retrieves a property by its unique identifier.
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*propertyDomain.Property, error) {
	return r.findOne(ctx, id, false)
}

// FindByIDForUpdate retrieves a property holding a FOR UPDATE row lock.
// Meaningful only inside a transaction; the lock serializes concurrent
// booking creation per property.
func (r *GormPropertyRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*propertyDomain.Property, error) {
	return r.findOne(ctx, id, true)
}

func (r *GormPropertyRepository) findOne(ctx context.Context, id uuid.UUID, forUpdate bool) (*propertyDomain.Property, error) {
	db := dbFrom(ctx, r.db)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var model PropertyModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Property", id.String())
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	return toDomainProperty(&model)
}

// FindByHostID retrieves all properties listed by a host.
func (r *GormPropertyRepository) FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*propertyDomain.Property, error) {
	var models []PropertyModel
	if err := dbFrom(ctx, r.db).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find host properties: %w", err)
	}
	return toDomainProperties(models)
}

// ListAll retrieves properties with pagination.
func (r *GormPropertyRepository) ListAll(ctx context.Context, page, limit int) ([]*propertyDomain.Property, int64, error) {
	db := dbFrom(ctx, r.db)

	var total int64
	if err := db.Model(&PropertyModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	var models []PropertyModel
	offset := (page - 1) * limit
	if err := db.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}

	properties, err := toDomainProperties(models)
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// Save persists a new property.
func (r *GormPropertyRepository) Save(ctx context.Context, p *propertyDomain.Property) error {
	model, err := toPropertyModel(p)
	if err != nil {
		return err
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

// Update persists changes to an existing property with optimistic locking.
func (r *GormPropertyRepository) Update(ctx context.Context, p *propertyDomain.Property) error {
	model, err := toPropertyModel(p)
	if err != nil {
		return err
	}

	expectedVersion := p.Version() - 1
	result := dbFrom(ctx, r.db).
		Model(&PropertyModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":                 model.Title,
			"description":           model.Description,
			"address":               model.Address,
			"city":                  model.City,
			"state":                 model.State,
			"country":               model.Country,
			"zip_code":              model.ZipCode,
			"price_per_night_cents": model.PricePerNightCents,
			"max_guests":            model.MaxGuests,
			"bedrooms":              model.Bedrooms,
			"bathrooms":             model.Bathrooms,
			"is_available":          model.IsAvailable,
			"property_type":         model.PropertyType,
			"amenities":             model.Amenities,
			"version":               model.Version,
			"updated_at":            model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("property was modified by another transaction")
	}
	return nil
}

// Delete removes a property listing.
func (r *GormPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Where("id = ?", id).Delete(&PropertyModel{}).Error
}

// --- Conversions ---

func toPropertyModel(p *propertyDomain.Property) (*PropertyModel, error) {
	amenities, err := json.Marshal(p.Amenities())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal amenities: %w", err)
	}
	return &PropertyModel{
		ID:                 p.ID(),
		HostID:             p.HostID(),
		Title:              p.Title(),
		Description:        p.Description(),
		Address:            p.Address(),
		City:               p.City(),
		State:              p.State(),
		Country:            p.Country(),
		ZipCode:            p.ZipCode(),
		PricePerNightCents: p.PricePerNightCents(),
		MaxGuests:          p.MaxGuests(),
		Bedrooms:           p.Bedrooms(),
		Bathrooms:          p.Bathrooms(),
		IsAvailable:        p.IsAvailable(),
		PropertyType:       p.PropertyType(),
		Amenities:          amenities,
		Version:            p.Version(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
	}, nil
}

func toDomainProperty(m *PropertyModel) (*propertyDomain.Property, error) {
	var amenities []string
	if len(m.Amenities) > 0 {
		if err := json.Unmarshal(m.Amenities, &amenities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal amenities: %w", err)
		}
	}
	return propertyDomain.Reconstruct(
		m.ID, m.HostID,
		m.Title, m.Description, m.Address, m.City, m.State, m.Country, m.ZipCode,
		m.PricePerNightCents,
		m.MaxGuests, m.Bedrooms,
		m.Bathrooms,
		m.IsAvailable,
		m.PropertyType,
		amenities,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}

func toDomainProperties(models []PropertyModel) ([]*propertyDomain.Property, error) {
	properties := make([]*propertyDomain.Property, len(models))
	for i, m := range models {
		p, err := toDomainProperty(&m)
		if err != nil {
			return nil, err
		}
		properties[i] = p
	}
	return properties, nil
}
