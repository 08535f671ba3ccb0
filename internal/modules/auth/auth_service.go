package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fasttrack-courier/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is how long an issued access token stays valid.
const tokenTTL = 30 * time.Minute

// ServiceInterface defines the contract for the auth service.
type ServiceInterface interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Service implements the auth service logic.
type Service struct {
	repo      RepositoryInterface
	jwtSecret []byte
}

// NewService creates a new auth service.
func NewService(repo RepositoryInterface, jwtSecret string) *Service {
	return &Service{repo: repo, jwtSecret: []byte(jwtSecret)}
}

// Register creates a profile and returns it together with a fresh token.
// Accounts default to the merchant role.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Register: %w", err)
	}
	if existing != nil {
		return nil, models.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Register: hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleMerchant
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		BusinessName: req.BusinessName,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         role,
		Status:       models.UserStatusActive,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(created)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{AccessToken: token, TokenType: "bearer", User: created}, nil
}

// Login verifies the credentials against the stored bcrypt hash and issues a
// token. A missing profile and a wrong password look identical to the caller.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{AccessToken: token, TokenType: "bearer", User: user}, nil
}

// Me returns the profile behind a verified token.
func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// ListUsers returns every profile. The admin guard sits in the routing layer.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListAll(ctx)
}

// issueToken signs a 30-minute HS256 token carrying the subject, email and
// role claims the middleware extracts on every request.
func (s *Service) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("service.issueToken: %w", err)
	}
	return signed, nil
}
