package service

import (
	"context"
	"errors"
	"time"

	"ecr/internal/apperr"
	"ecr/internal/domain"
	"ecr/internal/events"
	"ecr/internal/models"
	"ecr/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrCommissionNotFound = apperr.NotFound("Commission not found")
	ErrNotCommissionOwner = apperr.Forbidden("This commission is not yours to settle")
	ErrCommissionPaid     = apperr.Conflict("Commission already paid")
)

type MarkPaidInput struct {
	PaymentDetails string
	Notes          string
}

type CommissionService struct {
	repo     *repository.CommissionRepository
	notifier *NotificationService
	audit    *AuditService
	sink     events.Sink
	now      func() time.Time
}

func NewCommissionService(repo *repository.CommissionRepository, notifier *NotificationService, audit *AuditService, sink events.Sink) *CommissionService {
	return &CommissionService{repo: repo, notifier: notifier, audit: audit, sink: sink, now: time.Now}
}

func (s *CommissionService) ListForOwner(ctx context.Context, ownerID uint) ([]models.Commission, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *CommissionService) ListForBroker(ctx context.Context, brokerID uint) ([]models.Commission, error) {
	return s.repo.ListByBroker(ctx, brokerID)
}

func (s *CommissionService) ListAll(ctx context.Context, page, limit int) ([]models.Commission, int64, error) {
	return s.repo.ListAll(ctx, page, limit)
}

// MarkPaid records that the owner paid the broker. Only pending commissions
// move; a second call gets ErrCommissionPaid.
func (s *CommissionService) MarkPaid(ctx context.Context, ownerID, id uint, in MarkPaidInput) (*models.Commission, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, ErrNotCommissionOwner
	}
	if c.Status == domain.CommissionPaid {
		return nil, ErrCommissionPaid
	}
	n, err := s.repo.MarkPaid(ctx, c.ID, s.now(), in.PaymentDetails, in.Notes)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrCommissionPaid
	}
	if c, err = s.get(ctx, id); err != nil {
		return nil, err
	}

	s.notifier.NotifyCommissionPaid(ctx, c)
	s.audit.Record(ctx, AuditEntry{
		UserID:     ownerID,
		Action:     "commission.paid",
		Resource:   "commission",
		ResourceID: c.ID,
		Metadata:   map[string]interface{}{"amount": c.Amount, "brokerId": c.BrokerID},
	})
	publish(ctx, s.sink, events.New(events.TypeCommissionPaid, c.PropertyID, map[string]interface{}{
		"commissionId": c.ID,
		"bookingId":    c.BookingID,
	}))
	return c, nil
}

// Delete is the admin's hard delete.
func (s *CommissionService) Delete(ctx context.Context, id uint) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommissionNotFound
	}
	return nil
}

func (s *CommissionService) get(ctx context.Context, id uint) (*models.Commission, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionNotFound
		}
		return nil, err
	}
	return c, nil
}
