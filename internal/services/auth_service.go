package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/event-dashboard-api/internal/auth"
	"github.com/yukikurage/event-dashboard-api/internal/constants"
	"github.com/yukikurage/event-dashboard-api/internal/models"
	"github.com/yukikurage/event-dashboard-api/internal/repository"
	"github.com/yukikurage/event-dashboard-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue token")
)

// TokenManager issues and verifies access tokens.
type TokenManager interface {
	Issue(userID string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// AuthService handles registration, credential checks and token issuance.
type AuthService struct {
	userRepo     repository.UserRepository
	tokens       TokenManager
	passwordCost int
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithPasswordCost overrides the bcrypt cost (tests use bcrypt.MinCost).
func WithPasswordCost(cost int) AuthOption {
	return func(s *AuthService) {
		s.passwordCost = cost
	}
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenManager, opts ...AuthOption) *AuthService {
	s := &AuthService{
		userRepo:     userRepo,
		tokens:       tokens,
		passwordCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register stores a new user with a bcrypt hash of the password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	switch {
	case username == "":
		return nil, newValidationError("username", "is required")
	case len(username) < constants.MinUsernameLength || len(username) > constants.MaxUsernameLength:
		return nil, newValidationError("username", fmt.Sprintf("must be between %d and %d characters",
			constants.MinUsernameLength, constants.MaxUsernameLength))
	case len(input.Password) < constants.MinPasswordLength:
		return nil, newValidationError("password", fmt.Sprintf("must be at least %d characters", constants.MinPasswordLength))
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.passwordCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		ID:           utils.NewID(),
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerifyCredentials returns the user whose stored hash matches the password.
func (s *AuthService) VerifyCredentials(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, *models.User, error) {
	user, err := s.VerifyCredentials(ctx, input)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFailedToIssueToken, err)
	}
	return token, user, nil
}

// Authenticate verifies an access token and returns its claims.
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	return s.tokens.Verify(token)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
