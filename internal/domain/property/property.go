package property

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/domain"
)

// Property is the aggregate root for a host's listed property. The
// availability flag is host-controlled and gates new bookings only; it
// never affects bookings that already exist.
type Property struct {
	id                 uuid.UUID
	hostID             uuid.UUID
	title              string
	description        string
	address            string
	city               string
	state              string
	country            string
	zipCode            string
	pricePerNightCents int64
	maxGuests          int
	bedrooms           int
	bathrooms          float64
	isAvailable        bool
	propertyType       string
	amenities          []string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewProperty creates a new available property listing with validated fields.
func NewProperty(
	hostID uuid.UUID,
	title, description, address, city, state, country, zipCode string,
	pricePerNightCents int64,
	maxGuests, bedrooms int,
	bathrooms float64,
	propertyType string,
	amenities []string,
) (*Property, error) {
	if hostID == uuid.Nil {
		return nil, domain.NewValidationError("host ID is required")
	}
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if pricePerNightCents < 0 {
		return nil, domain.NewValidationError("price per night cannot be negative")
	}
	if maxGuests <= 0 {
		return nil, domain.NewValidationError("max guests must be positive")
	}

	if amenities == nil {
		amenities = []string{}
	}

	now := time.Now().UTC()
	return &Property{
		id:                 uuid.New(),
		hostID:             hostID,
		title:              title,
		description:        description,
		address:            address,
		city:               city,
		state:              state,
		country:            country,
		zipCode:            zipCode,
		pricePerNightCents: pricePerNightCents,
		maxGuests:          maxGuests,
		bedrooms:           bedrooms,
		bathrooms:          bathrooms,
		isAvailable:        true,
		propertyType:       propertyType,
		amenities:          amenities,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Reconstruct rebuilds a Property from persistence data (no validation).
func Reconstruct(
	id, hostID uuid.UUID,
	title, description, address, city, state, country, zipCode string,
	pricePerNightCents int64,
	maxGuests, bedrooms int,
	bathrooms float64,
	isAvailable bool,
	propertyType string,
	amenities []string,
	version int64,
	createdAt, updatedAt time.Time,
) *Property {
	return &Property{
		id:                 id,
		hostID:             hostID,
		title:              title,
		description:        description,
		address:            address,
		city:               city,
		state:              state,
		country:            country,
		zipCode:            zipCode,
		pricePerNightCents: pricePerNightCents,
		maxGuests:          maxGuests,
		bedrooms:           bedrooms,
		bathrooms:          bathrooms,
		isAvailable:        isAvailable,
		propertyType:       propertyType,
		amenities:          amenities,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// --- Getters ---

func (p *Property) ID() uuid.UUID             { return p.id }
func (p *Property) HostID() uuid.UUID         { return p.hostID }
func (p *Property) Title() string             { return p.title }
func (p *Property) Description() string       { return p.description }
func (p *Property) Address() string           { return p.address }
func (p *Property) City() string              { return p.city }
func (p *Property) State() string             { return p.state }
func (p *Property) Country() string           { return p.country }
func (p *Property) ZipCode() string           { return p.zipCode }
func (p *Property) PricePerNightCents() int64 { return p.pricePerNightCents }
func (p *Property) MaxGuests() int            { return p.maxGuests }
func (p *Property) Bedrooms() int             { return p.bedrooms }
func (p *Property) Bathrooms() float64        { return p.bathrooms }
func (p *Property) IsAvailable() bool         { return p.isAvailable }
func (p *Property) PropertyType() string      { return p.propertyType }
func (p *Property) Amenities() []string       { return p.amenities }
func (p *Property) Version() int64            { return p.version }
func (p *Property) CreatedAt() time.Time      { return p.createdAt }
func (p *Property) UpdatedAt() time.Time      { return p.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the property belongs to the given host.
func (p *Property) IsOwnedBy(hostID uuid.UUID) bool {
	return p.hostID == hostID
}

// Update applies partial updates to the listing. The nightly rate and
// availability changes never retroactively touch existing bookings.
func (p *Property) Update(
	title, description, address, city, state, country, zipCode string,
	pricePerNightCents *int64,
	maxGuests, bedrooms int,
	bathrooms float64,
	propertyType string,
	amenities []string,
) error {
	if pricePerNightCents != nil {
		if *pricePerNightCents < 0 {
			return domain.NewValidationError("price per night cannot be negative")
		}
		p.pricePerNightCents = *pricePerNightCents
	}
	if title != "" {
		p.title = title
	}
	if description != "" {
		p.description = description
	}
	if address != "" {
		p.address = address
	}
	if city != "" {
		p.city = city
	}
	if state != "" {
		p.state = state
	}
	if country != "" {
		p.country = country
	}
	if zipCode != "" {
		p.zipCode = zipCode
	}
	if maxGuests > 0 {
		p.maxGuests = maxGuests
	}
	if bedrooms > 0 {
		p.bedrooms = bedrooms
	}
	if bathrooms > 0 {
		p.bathrooms = bathrooms
	}
	if propertyType != "" {
		p.propertyType = propertyType
	}
	if amenities != nil {
		p.amenities = amenities
	}
	p.version++
	p.updatedAt = time.Now().UTC()
	return nil
}

// SetAvailability toggles the host-controlled availability gate.
func (p *Property) SetAvailability(available bool) {
	p.isAvailable = available
	p.version++
	p.updatedAt = time.Now().UTC()
}

// CanAccommodate reports whether the guest count fits the listing.
func (p *Property) CanAccommodate(guests int) bool {
	return guests > 0 && guests <= p.maxGuests
}
