package property

import (
	"context"

	"github.com/google/uuid"
)

// PropertyRepository defines the persistence contract for property aggregates.
type PropertyRepository interface {
	// FindByID retrieves a property by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)

	// FindByIDForUpdate retrieves a property holding a row lock for the
	// remainder of the surrounding transaction. Used to serialize
	// check-then-insert booking creation per property.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Property, error)

	// FindByHostID retrieves all properties listed by a host.
	FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*Property, error)

	// ListAll retrieves properties with pagination.
	ListAll(ctx context.Context, page, limit int) ([]*Property, int64, error)

	// Save persists a new property.
	Save(ctx context.Context, property *Property) error

	// Update persists changes to an existing property with optimistic locking.
	Update(ctx context.Context, property *Property) error

	// Delete removes a property listing.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageRepository defines the persistence contract for property images.
type ImageRepository interface {
	// FindByID retrieves an image by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Image, error)

	// FindByPropertyID retrieves all images for a property, primary first.
	FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*Image, error)

	// Save persists a new image.
	Save(ctx context.Context, image *Image) error

	// SetPrimary marks the given image primary and clears the flag on
	// the property's other images.
	SetPrimary(ctx context.Context, propertyID, imageID uuid.UUID) error

	// Delete removes an image.
	Delete(ctx context.Context, id uuid.UUID) error
}
