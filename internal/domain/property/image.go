package property

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/domain"
)

// Image is a photo attached to a property listing. At most one image
// per property carries the primary flag.
type Image struct {
	id         uuid.UUID
	propertyID uuid.UUID
	imageURL   string
	isPrimary  bool
	createdAt  time.Time
}

// NewImage creates a new property image.
func NewImage(propertyID uuid.UUID, imageURL string, isPrimary bool) (*Image, error) {
	if propertyID == uuid.Nil {
		return nil, domain.NewValidationError("property ID is required")
	}
	if imageURL == "" {
		return nil, domain.NewValidationError("image URL is required")
	}
	return &Image{
		id:         uuid.New(),
		propertyID: propertyID,
		imageURL:   imageURL,
		isPrimary:  isPrimary,
		createdAt:  time.Now().UTC(),
	}, nil
}

// ReconstructImage rebuilds an Image from persistence.
func ReconstructImage(id, propertyID uuid.UUID, imageURL string, isPrimary bool, createdAt time.Time) *Image {
	return &Image{
		id:         id,
		propertyID: propertyID,
		imageURL:   imageURL,
		isPrimary:  isPrimary,
		createdAt:  createdAt,
	}
}

// Getters.
func (i *Image) ID() uuid.UUID         { return i.id }
func (i *Image) PropertyID() uuid.UUID { return i.propertyID }
func (i *Image) ImageURL() string      { return i.imageURL }
func (i *Image) IsPrimary() bool       { return i.isPrimary }
func (i *Image) CreatedAt() time.Time  { return i.createdAt }
