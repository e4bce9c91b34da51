package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ecr/internal/apperr"
	"ecr/internal/domain"
	"ecr/internal/models"
	"ecr/internal/repository"
	"ecr/pkg/logger"
)

type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(ctx context.Context, userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	return s.repo.Create(ctx, &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
}

// notify is used after a commit, where a failed inbox write must not undo
// or fail the operation.
func (s *NotificationService) notify(ctx context.Context, userID uint, notifType, title, body string, data map[string]interface{}) {
	if s == nil {
		return
	}
	if err := s.Notify(ctx, userID, notifType, title, body, data); err != nil {
		logger.Warn(ctx).Err(err).Uint("user_id", userID).Str("type", notifType).Msg("notification write failed")
	}
}

func (s *NotificationService) NotifyNewBooking(ctx context.Context, ownerID uint, b *models.Booking, propertyTitle string) {
	s.notify(ctx, ownerID, domain.NotifyNewBooking, "New booking",
		fmt.Sprintf("New booking for %s from %s", propertyTitle, b.StartDate.Format(dateLayout)),
		map[string]interface{}{"bookingId": b.ID, "propertyId": b.PropertyID})
}

func (s *NotificationService) NotifyBookingStatus(ctx context.Context, userID uint, b *models.Booking) {
	notifType, title := domain.NotifyBookingConfirmed, "Booking confirmed"
	if b.Status == domain.BookingCancelled {
		notifType, title = domain.NotifyBookingCancelled, "Booking cancelled"
	}
	s.notify(ctx, userID, notifType, title, fmt.Sprintf("Booking #%d is now %s", b.ID, b.Status),
		map[string]interface{}{"bookingId": b.ID, "propertyId": b.PropertyID})
}

func (s *NotificationService) NotifyPaymentSettled(ctx context.Context, p *models.Payment) {
	if p.Status == domain.PaymentSuccess {
		s.notify(ctx, p.CustomerID, domain.NotifyPaymentConfirmed, "Payment confirmed", "Your payment was successful.",
			map[string]interface{}{"paymentId": p.ID, "bookingId": p.BookingID, "amount": p.Amount})
		return
	}
	s.notify(ctx, p.CustomerID, domain.NotifyPaymentFailed, "Payment failed", "Your payment could not be completed.",
		map[string]interface{}{"paymentId": p.ID, "bookingId": p.BookingID})
}

func (s *NotificationService) NotifyCommissionDue(ctx context.Context, c *models.Commission) {
	s.notify(ctx, c.BrokerID, domain.NotifyCommissionDue, "Commission due",
		fmt.Sprintf("A commission of %.2f is due by %s", c.Amount, c.DueDate.Format(dateLayout)),
		map[string]interface{}{"commissionId": c.ID, "bookingId": c.BookingID})
}

func (s *NotificationService) NotifyCommissionPaid(ctx context.Context, c *models.Commission) {
	s.notify(ctx, c.BrokerID, domain.NotifyCommissionPaid, "Commission paid",
		fmt.Sprintf("Commission #%d of %.2f was paid", c.ID, c.Amount),
		map[string]interface{}{"commissionId": c.ID, "bookingId": c.BookingID})
}

func (s *NotificationService) List(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.repo.ListByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	n, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("Notification not found")
	}
	return nil
}
