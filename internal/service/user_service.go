package service

import (
	"context"
	"encoding/json"
	"strings"

	"ecr/internal/apperr"
	"ecr/internal/domain"
	"ecr/internal/models"
	"ecr/internal/repository"

	"gorm.io/datatypes"
)

type ProfileUpdate struct {
	Name      *string
	Profile   json.RawMessage
	Documents json.RawMessage
}

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return u, nil
}

// UpdateProfile changes display data only. Email, role and verification
// are not editable by the user.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		u.Name = name
	}
	if len(in.Profile) > 0 {
		if !json.Valid(in.Profile) {
			return nil, apperr.Validation("profile must be valid JSON")
		}
		u.Profile = datatypes.JSON(in.Profile)
	}
	if len(in.Documents) > 0 {
		if !json.Valid(in.Documents) {
			return nil, apperr.Validation("documents must be valid JSON")
		}
		u.Documents = datatypes.JSON(in.Documents)
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, search, role string, page, limit int) ([]models.User, int64, error) {
	var r domain.Role
	if role != "" {
		parsed, err := domain.ParseRole(role)
		if err != nil {
			return nil, 0, apperr.Validation(err.Error())
		}
		r = parsed
	}
	return s.userRepo.List(ctx, search, r, page, limit)
}

func (s *UserService) SetVerified(ctx context.Context, id uint, verified bool) (*models.User, error) {
	// rows affected is zero when the flag is unchanged, so existence is
	// checked by reading the row back
	if _, err := s.userRepo.SetVerified(ctx, id, verified); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}
