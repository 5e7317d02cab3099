package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openstay/service-booking/internal/domain"
	propertyDomain "github.com/openstay/service-booking/internal/domain/property"
)

// CreatePropertyRequest holds the data for listing a new property.
type CreatePropertyRequest struct {
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description"`
	Address            string   `json:"address" binding:"required"`
	City               string   `json:"city" binding:"required"`
	State              string   `json:"state"`
	Country            string   `json:"country" binding:"required"`
	ZipCode            string   `json:"zip_code"`
	PricePerNightCents int64    `json:"price_per_night_cents" binding:"min=0"`
	MaxGuests          int      `json:"max_guests" binding:"required"`
	Bedrooms           int      `json:"bedrooms"`
	Bathrooms          float64  `json:"bathrooms"`
	PropertyType       string   `json:"property_type"`
	Amenities          []string `json:"amenities"`
}

// UpdatePropertyRequest holds partial updates to a listing. A nil
// price means unchanged; zero-valued fields are left as they are.
type UpdatePropertyRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Address            string   `json:"address"`
	City               string   `json:"city"`
	State              string   `json:"state"`
	Country            string   `json:"country"`
	ZipCode            string   `json:"zip_code"`
	PricePerNightCents *int64   `json:"price_per_night_cents"`
	MaxGuests          int      `json:"max_guests"`
	Bedrooms           int      `json:"bedrooms"`
	Bathrooms          float64  `json:"bathrooms"`
	PropertyType       string   `json:"property_type"`
	Amenities          []string `json:"amenities"`
}

// AddImageRequest holds the data for attaching an image to a listing.
type AddImageRequest struct {
	ImageURL  string `json:"image_url" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// PropertyDTO is the response representation of a property listing.
type PropertyDTO struct {
	ID                 uuid.UUID `json:"id"`
	HostID             uuid.UUID `json:"host_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Address            string    `json:"address"`
	City               string    `json:"city"`
	State              string    `json:"state,omitempty"`
	Country            string    `json:"country"`
	ZipCode            string    `json:"zip_code,omitempty"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	MaxGuests          int       `json:"max_guests"`
	Bedrooms           int       `json:"bedrooms"`
	Bathrooms          float64   `json:"bathrooms"`
	IsAvailable        bool      `json:"is_available"`
	PropertyType       string    `json:"property_type,omitempty"`
	Amenities          []string  `json:"amenities"`
	Version            int64     `json:"version"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ImageDTO is the response representation of a property image.
type ImageDTO struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	ImageURL   string    `json:"image_url"`
	IsPrimary  bool      `json:"is_primary"`
	CreatedAt  time.Time `json:"created_at"`
}

// PropertyService is the application service for property listings and
// their images.
type PropertyService struct {
	properties propertyDomain.PropertyRepository
	images     propertyDomain.ImageRepository
	logger     *zap.Logger
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(
	properties propertyDomain.PropertyRepository,
	images propertyDomain.ImageRepository,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		properties: properties,
		images:     images,
		logger:     logger,
	}
}

// CreateProperty lists a new property for the given host.
func (s *PropertyService) CreateProperty(ctx context.Context, hostID uuid.UUID, req CreatePropertyRequest) (*PropertyDTO, error) {
	prop, err := propertyDomain.NewProperty(
		hostID,
		req.Title, req.Description, req.Address, req.City, req.State, req.Country, req.ZipCode,
		req.PricePerNightCents,
		req.MaxGuests, req.Bedrooms,
		req.Bathrooms,
		req.PropertyType,
		req.Amenities,
	)
	if err != nil {
		return nil, err
	}

	if err := s.properties.Save(ctx, prop); err != nil {
		return nil, err
	}

	result := toPropertyDTO(prop)
	return &result, nil
}

// UpdateProperty applies partial updates to a listing. Changing the
// nightly rate never touches existing bookings; their totals were
// fixed at creation.
func (s *PropertyService) UpdateProperty(ctx context.Context, propertyID, actorID uuid.UUID, isStaff bool, req UpdatePropertyRequest) (*PropertyDTO, error) {
	prop, err := s.mutableProperty(ctx, propertyID, actorID, isStaff)
	if err != nil {
		return nil, err
	}

	err = prop.Update(
		req.Title, req.Description, req.Address, req.City, req.State, req.Country, req.ZipCode,
		req.PricePerNightCents,
		req.MaxGuests, req.Bedrooms,
		req.Bathrooms,
		req.PropertyType,
		req.Amenities,
	)
	if err != nil {
		return nil, err
	}

	if err := s.properties.Update(ctx, prop); err != nil {
		return nil, err
	}

	result := toPropertyDTO(prop)
	return &result, nil
}

// SetAvailability toggles the host-controlled booking gate. Hiding a
// listing only stops new bookings; existing ones keep their lifecycle.
func (s *PropertyService) SetAvailability(ctx context.Context, propertyID, actorID uuid.UUID, isStaff, available bool) (*PropertyDTO, error) {
	prop, err := s.mutableProperty(ctx, propertyID, actorID, isStaff)
	if err != nil {
		return nil, err
	}

	prop.SetAvailability(available)
	if err := s.properties.Update(ctx, prop); err != nil {
		return nil, err
	}

	result := toPropertyDTO(prop)
	return &result, nil
}

// DeleteProperty removes a listing.
func (s *PropertyService) DeleteProperty(ctx context.Context, propertyID, actorID uuid.UUID, isStaff bool) error {
	if _, err := s.mutableProperty(ctx, propertyID, actorID, isStaff); err != nil {
		return err
	}
	return s.properties.Delete(ctx, propertyID)
}

// GetProperty retrieves a single listing.
func (s *PropertyService) GetProperty(ctx context.Context, propertyID uuid.UUID) (*PropertyDTO, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	result := toPropertyDTO(prop)
	return &result, nil
}

// ListProperties retrieves listings with pagination.
func (s *PropertyService) ListProperties(ctx context.Context, page, limit int) (*domain.PaginatedResult[PropertyDTO], error) {
	props, total, err := s.properties.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]PropertyDTO, len(props))
	for i, p := range props {
		dtos[i] = toPropertyDTO(p)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetHostProperties retrieves all listings of a host.
func (s *PropertyService) GetHostProperties(ctx context.Context, hostID uuid.UUID) ([]PropertyDTO, error) {
	props, err := s.properties.FindByHostID(ctx, hostID)
	if err != nil {
		return nil, err
	}

	dtos := make([]PropertyDTO, len(props))
	for i, p := range props {
		dtos[i] = toPropertyDTO(p)
	}
	return dtos, nil
}

// --- Images ---

// AddImage attaches an image to a listing. When the new image is
// primary it takes the flag over from any previous primary.
func (s *PropertyService) AddImage(ctx context.Context, propertyID, actorID uuid.UUID, isStaff bool, req AddImageRequest) (*ImageDTO, error) {
	if _, err := s.mutableProperty(ctx, propertyID, actorID, isStaff); err != nil {
		return nil, err
	}

	img, err := propertyDomain.NewImage(propertyID, req.ImageURL, req.IsPrimary)
	if err != nil {
		return nil, err
	}
	if err := s.images.Save(ctx, img); err != nil {
		return nil, err
	}
	if req.IsPrimary {
		if err := s.images.SetPrimary(ctx, propertyID, img.ID()); err != nil {
			return nil, err
		}
	}

	result := toImageDTO(img)
	return &result, nil
}

// ListImages retrieves a listing's images, primary first.
func (s *PropertyService) ListImages(ctx context.Context, propertyID uuid.UUID) ([]ImageDTO, error) {
	imgs, err := s.images.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ImageDTO, len(imgs))
	for i, img := range imgs {
		dtos[i] = toImageDTO(img)
	}
	return dtos, nil
}

// SetPrimaryImage moves the primary flag to the given image.
func (s *PropertyService) SetPrimaryImage(ctx context.Context, propertyID, imageID, actorID uuid.UUID, isStaff bool) error {
	if _, err := s.mutableProperty(ctx, propertyID, actorID, isStaff); err != nil {
		return err
	}

	img, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img.PropertyID() != propertyID {
		return domain.NewValidationError("image does not belong to this property")
	}

	return s.images.SetPrimary(ctx, propertyID, imageID)
}

// DeleteImage removes an image from a listing.
func (s *PropertyService) DeleteImage(ctx context.Context, propertyID, imageID, actorID uuid.UUID, isStaff bool) error {
	if _, err := s.mutableProperty(ctx, propertyID, actorID, isStaff); err != nil {
		return err
	}

	img, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img.PropertyID() != propertyID {
		return domain.NewValidationError("image does not belong to this property")
	}

	return s.images.Delete(ctx, imageID)
}

// --- Helpers ---

// mutableProperty loads a property and checks the caller may modify it.
func (s *PropertyService) mutableProperty(ctx context.Context, propertyID, actorID uuid.UUID, isStaff bool) (*propertyDomain.Property, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !isStaff && !prop.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("property belongs to another host")
	}
	return prop, nil
}

func toPropertyDTO(p *propertyDomain.Property) PropertyDTO {
	return PropertyDTO{
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
		Amenities:          p.Amenities(),
		Version:            p.Version(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
	}
}

func toImageDTO(img *propertyDomain.Image) ImageDTO {
	return ImageDTO{
		ID:         img.ID(),
		PropertyID: img.PropertyID(),
		ImageURL:   img.ImageURL(),
		IsPrimary:  img.IsPrimary(),
		CreatedAt:  img.CreatedAt(),
	}
}
