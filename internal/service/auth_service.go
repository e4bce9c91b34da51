package service

import (
	"context"
	"errors"
	"strings"

	"ecr/internal/apperr"
	"ecr/internal/auth"
	"ecr/internal/domain"
	"ecr/internal/models"
	"ecr/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists         = apperr.Conflict("User already exists")
	ErrInvalidCreds        = apperr.Unauthenticated("Invalid credentials")
	ErrRoleNotAllowed      = apperr.Validation("role must be one of owner, customer, broker")
	ErrRefreshRequired     = apperr.Unauthenticated("Refresh token required")
	ErrInvalidRefreshToken = apperr.Forbidden("Invalid or expired refresh token")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService struct {
	issuer   *auth.Issuer
	userRepo *repository.UserRepository
}

func NewAuthService(issuer *auth.Issuer, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{issuer: issuer, userRepo: userRepo}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil || !role.SelfRegistrable() {
		return nil, ErrRoleNotAllowed
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	_, err = s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCreds
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCreds
	}
	access, err := s.issuer.GenerateAccessToken(u.ID, u.Role)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.issuer.GenerateRefreshToken(u.ID, u.Role)
	if err != nil {
		return nil, nil, err
	}
	return u, &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh mints a new access token for the identity in a valid refresh
// token. The account is not looked up again.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", ErrRefreshRequired
	}
	claims, err := s.issuer.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	return s.issuer.GenerateAccessToken(claims.UserID, claims.Role)
}
