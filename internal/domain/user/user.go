package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/domain"
)

// User is the aggregate root for marketplace accounts. Hosts list
// properties; every account can book as a guest. Staff accounts hold
// administrative rights.
type User struct {
	id                uuid.UUID
	email             string
	passwordHash      string
	firstName         string
	lastName          string
	phoneNumber       string
	profilePictureURL string
	bio               string
	isHost            bool
	isStaff           bool

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new account. The password hash must already be computed.
func NewUser(email, passwordHash, firstName, lastName string, isHost bool) (*User, error) {
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password hash is required")
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		firstName:    firstName,
		lastName:     lastName,
		isHost:       isHost,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	email, passwordHash, firstName, lastName, phoneNumber, profilePictureURL, bio string,
	isHost, isStaff bool,
	version int64,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:                id,
		email:             email,
		passwordHash:      passwordHash,
		firstName:         firstName,
		lastName:          lastName,
		phoneNumber:       phoneNumber,
		profilePictureURL: profilePictureURL,
		bio:               bio,
		isHost:            isHost,
		isStaff:           isStaff,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// --- Getters ---

func (u *User) ID() uuid.UUID             { return u.id }
func (u *User) Email() string             { return u.email }
func (u *User) PasswordHash() string      { return u.passwordHash }
func (u *User) FirstName() string         { return u.firstName }
func (u *User) LastName() string          { return u.lastName }
func (u *User) PhoneNumber() string       { return u.phoneNumber }
func (u *User) ProfilePictureURL() string { return u.profilePictureURL }
func (u *User) Bio() string               { return u.bio }
func (u *User) IsHost() bool              { return u.isHost }
func (u *User) IsStaff() bool             { return u.isStaff }
func (u *User) Version() int64            { return u.version }
func (u *User) CreatedAt() time.Time      { return u.createdAt }
func (u *User) UpdatedAt() time.Time      { return u.updatedAt }

// --- Behavior ---

// UpdateProfile applies partial updates to the account profile.
func (u *User) UpdateProfile(firstName, lastName, phoneNumber, profilePictureURL, bio string) {
	if firstName != "" {
		u.firstName = firstName
	}
	if lastName != "" {
		u.lastName = lastName
	}
	if phoneNumber != "" {
		u.phoneNumber = phoneNumber
	}
	if profilePictureURL != "" {
		u.profilePictureURL = profilePictureURL
	}
	if bio != "" {
		u.bio = bio
	}
	u.version++
	u.updatedAt = time.Now().UTC()
}

// BecomeHost grants the account hosting rights.
func (u *User) BecomeHost() {
	u.isHost = true
	u.version++
	u.updatedAt = time.Now().UTC()
}
