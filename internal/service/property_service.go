package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"ecr/internal/apperr"
	"ecr/internal/domain"
	"ecr/internal/events"
	"ecr/internal/models"
	"ecr/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPropertyNotFound  = apperr.NotFound("Property not found")
	ErrNotPropertyOwner  = apperr.Forbidden("You do not own this property")
	ErrBrokerNotFound    = apperr.Validation("brokerId must reference a broker account")
	ErrInvalidCommission = apperr.Validation("commission cannot be negative")
)

// PropertyInput is shared by create and update. On update nil fields keep
// their stored value.
type PropertyInput struct {
	Title       *string
	Description *string
	Location    *string
	Address     *string
	Price       *float64
	BrokerID    *uint
	Commission  *float64
	Available   *bool
	Amenities   json.RawMessage
	MediaURLs   json.RawMessage
}

type PropertyService struct {
	props *repository.PropertyRepository
	users *repository.UserRepository
	sink  events.Sink
}

func NewPropertyService(props *repository.PropertyRepository, users *repository.UserRepository, sink events.Sink) *PropertyService {
	return &PropertyService{props: props, users: users, sink: sink}
}

func (s *PropertyService) Create(ctx context.Context, ownerID uint, in PropertyInput) (*models.Property, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" ||
		in.Location == nil || strings.TrimSpace(*in.Location) == "" ||
		in.Price == nil || *in.Price <= 0 {
		return nil, apperr.Validation("title, price and location are required")
	}
	p := &models.Property{OwnerID: ownerID, Available: true}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	// the owner always comes from the token
	p.OwnerID = ownerID
	if err := s.props.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PropertyService) List(ctx context.Context, f repository.PropertyFilter) ([]models.Property, int64, error) {
	return s.props.List(ctx, f)
}

func (s *PropertyService) Get(ctx context.Context, id uint) (*models.Property, error) {
	p, err := s.props.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PropertyService) ListMine(ctx context.Context, ownerID uint) ([]models.Property, error) {
	return s.props.ListByOwner(ctx, ownerID)
}

// Update is owner-scoped unless the actor is an admin.
func (s *PropertyService) Update(ctx context.Context, actor Actor, id uint, in PropertyInput) (*models.Property, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, apperr.Validation("title cannot be empty")
	}
	if in.Location != nil && strings.TrimSpace(*in.Location) == "" {
		return nil, apperr.Validation("location cannot be empty")
	}
	if in.Price != nil && *in.Price <= 0 {
		return nil, apperr.Validation("price must be positive")
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.props.Update(ctx, p); err != nil {
		return nil, err
	}
	publish(ctx, s.sink, events.New(events.TypePropertyUpdated, p.ID, map[string]interface{}{
		"available": p.Available,
		"price":     p.Price,
	}))
	return p, nil
}

func (s *PropertyService) Delete(ctx context.Context, actor Actor, id uint) error {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.props.Delete(ctx, p.ID); err != nil {
		return err
	}
	publish(ctx, s.sink, events.New(events.TypePropertyUpdated, p.ID, map[string]interface{}{
		"available": false,
		"deleted":   true,
	}))
	return nil
}

func (s *PropertyService) owned(ctx context.Context, actor Actor, id uint) (*models.Property, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && p.OwnerID != actor.ID {
		return nil, ErrNotPropertyOwner
	}
	return p, nil
}

func (s *PropertyService) apply(ctx context.Context, p *models.Property, in PropertyInput) error {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Location != nil {
		p.Location = strings.TrimSpace(*in.Location)
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Commission != nil {
		if *in.Commission < 0 {
			return ErrInvalidCommission
		}
		p.Commission = *in.Commission
	}
	if in.Available != nil {
		p.Available = *in.Available
	}
	if in.BrokerID != nil {
		if *in.BrokerID == 0 {
			p.BrokerID = nil
		} else {
			broker, err := s.users.GetByID(ctx, *in.BrokerID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err != nil || !broker.Is(domain.RoleBroker) {
				return ErrBrokerNotFound
			}
			id := broker.ID
			p.BrokerID = &id
		}
	}
	if len(in.Amenities) > 0 {
		if !json.Valid(in.Amenities) {
			return apperr.Validation("amenities must be valid JSON")
		}
		p.Amenities = datatypes.JSON(in.Amenities)
	}
	if len(in.MediaURLs) > 0 {
		if !json.Valid(in.MediaURLs) {
			return apperr.Validation("mediaUrls must be valid JSON")
		}
		p.MediaURLs = datatypes.JSON(in.MediaURLs)
	}
	return nil
}
