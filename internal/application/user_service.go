package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openstay/service-booking/internal/auth"
	"github.com/openstay/service-booking/internal/domain"
	userDomain "github.com/openstay/service-booking/internal/domain/user"
)

// RegisterRequest holds the data for creating a new account.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	IsHost    bool   `json:"is_host"`
}

// LoginRequest holds login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest holds partial profile updates.
type UpdateProfileRequest struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	PhoneNumber       string `json:"phone_number"`
	ProfilePictureURL string `json:"profile_picture_url"`
	Bio               string `json:"bio"`
}

// UserDTO is the response representation of an account. The password
// hash never leaves the service.
type UserDTO struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	PhoneNumber       string    `json:"phone_number,omitempty"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	IsHost            bool      `json:"is_host"`
	IsStaff           bool      `json:"is_staff"`
	CreatedAt         time.Time `json:"created_at"`
}

// AuthResultDTO is the response of register and login.
type AuthResultDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserService is the application service for accounts and authentication.
type UserService struct {
	users  userDomain.UserRepository
	jwt    *auth.JWTManager
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users userDomain.UserRepository, jwt *auth.JWTManager, logger *zap.Logger) *UserService {
	return &UserService{users: users, jwt: jwt, logger: logger}
}

// Register creates a new account and returns a signed access token.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*AuthResultDTO, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := userDomain.NewUser(req.Email, hash, req.FirstName, req.LastName, req.IsHost)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.jwt.Generate(u.ID(), u.IsHost(), u.IsStaff())
	if err != nil {
		return nil, err
	}

	return &AuthResultDTO{Token: token, User: toUserDTO(u)}, nil
}

// Login verifies credentials and returns a signed access token. The
// response never distinguishes a wrong password from an unknown email.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*AuthResultDTO, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return nil, domain.NewError(domain.CodeForbidden, "invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(req.Password, u.PasswordHash()) {
		return nil, domain.NewError(domain.CodeForbidden, "invalid credentials")
	}

	token, err := s.jwt.Generate(u.ID(), u.IsHost(), u.IsStaff())
	if err != nil {
		return nil, err
	}

	return &AuthResultDTO{Token: token, User: toUserDTO(u)}, nil
}

// GetUser retrieves an account by ID.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// UpdateProfile applies partial updates to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.UpdateProfile(req.FirstName, req.LastName, req.PhoneNumber, req.ProfilePictureURL, req.Bio)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	result := toUserDTO(u)
	return &result, nil
}

// BecomeHost grants the caller hosting rights. The fresh token carries
// the new host flag.
func (s *UserService) BecomeHost(ctx context.Context, userID uuid.UUID) (*AuthResultDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !u.IsHost() {
		u.BecomeHost()
		if err := s.users.Update(ctx, u); err != nil {
			return nil, err
		}
	}

	token, err := s.jwt.Generate(u.ID(), u.IsHost(), u.IsStaff())
	if err != nil {
		return nil, err
	}

	return &AuthResultDTO{Token: token, User: toUserDTO(u)}, nil
}

// --- Helpers ---

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:                u.ID(),
		Email:             u.Email(),
		FirstName:         u.FirstName(),
		LastName:          u.LastName(),
		PhoneNumber:       u.PhoneNumber(),
		ProfilePictureURL: u.ProfilePictureURL(),
		Bio:               u.Bio(),
		IsHost:            u.IsHost(),
		IsStaff:           u.IsStaff(),
		CreatedAt:         u.CreatedAt(),
	}
}
