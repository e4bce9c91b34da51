package service

import (
	"context"
	"errors"
	"strings"

	"ecr/internal/apperr"
	"ecr/internal/domain"
	"ecr/internal/models"
	"ecr/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrGatewayFieldsRequired = apperr.Validation("razorpayKeyId and razorpayKeySecret are required")
	ErrGatewayNotFound       = apperr.NotFound("Payment gateway not configured")
	ErrGatewayRoleNotAllowed = apperr.Forbidden("Only owners and brokers can configure a payment gateway")
	ErrOwnerGatewayMissing   = apperr.Domain("Owner has not set up a payment gateway")
)

// GatewayService manages one merchant credential set per (user, role).
type GatewayService struct {
	repo *repository.GatewayRepository
}

func NewGatewayService(repo *repository.GatewayRepository) *GatewayService {
	return &GatewayService{repo: repo}
}

// Upsert reports whether the binding was created (true) or updated.
func (s *GatewayService) Upsert(ctx context.Context, actor Actor, keyID, keySecret string) (*models.PaymentGateway, bool, error) {
	if !actor.Role.CanHoldGateway() {
		return nil, false, ErrGatewayRoleNotAllowed
	}
	keyID, keySecret = strings.TrimSpace(keyID), strings.TrimSpace(keySecret)
	if keyID == "" || keySecret == "" {
		return nil, false, ErrGatewayFieldsRequired
	}
	g, err := s.repo.GetByPrincipal(ctx, actor.ID, actor.Role)
	switch {
	case err == nil:
		g.KeyID = keyID
		g.KeySecret = keySecret
		if err := s.repo.Update(ctx, g); err != nil {
			return nil, false, err
		}
		return g, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		g = &models.PaymentGateway{
			UserID:    actor.ID,
			Role:      actor.Role,
			Provider:  domain.GatewayRazorpay,
			KeyID:     keyID,
			KeySecret: keySecret,
		}
		if err := s.repo.Create(ctx, g); err != nil {
			return nil, false, err
		}
		return g, true, nil
	default:
		return nil, false, err
	}
}

func (s *GatewayService) Get(ctx context.Context, actor Actor) (*models.PaymentGateway, error) {
	g, err := s.repo.GetByPrincipal(ctx, actor.ID, actor.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGatewayNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *GatewayService) Delete(ctx context.Context, actor Actor) error {
	n, err := s.repo.DeleteByPrincipal(ctx, actor.ID, actor.Role)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGatewayNotFound
	}
	return nil
}

// ResolveForOwner returns the gateway payments for the owner's properties
// are collected through.
func (s *GatewayService) ResolveForOwner(ctx context.Context, ownerID uint) (*models.PaymentGateway, error) {
	g, err := s.repo.GetByPrincipal(ctx, ownerID, domain.RoleOwner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerGatewayMissing
		}
		return nil, err
	}
	return g, nil
}
