package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ecr/internal/apperr"
	"ecr/internal/domain"
	"ecr/internal/events"
	"ecr/internal/models"
	"ecr/internal/repository"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var (
	ErrBookingNotFound      = apperr.NotFound("Booking not found")
	ErrNotBookingCustomer   = apperr.Forbidden("This booking does not belong to you")
	ErrPropertyUnavailable  = apperr.Domain("Property is not available")
	ErrInvalidBookingAmount = apperr.Validation("amount must be positive")
)

type BookingInput struct {
	PropertyID uint
	Amount     float64
	Date       string
	EndDate    string
}

type BookingService struct {
	bookings *repository.BookingRepository
	props    *repository.PropertyRepository
	notifier *NotificationService
	sink     events.Sink
}

func NewBookingService(bookings *repository.BookingRepository, props *repository.PropertyRepository, notifier *NotificationService, sink events.Sink) *BookingService {
	return &BookingService{bookings: bookings, props: props, notifier: notifier, sink: sink}
}

func (s *BookingService) Create(ctx context.Context, customerID uint, in BookingInput) (*models.Booking, error) {
	if in.PropertyID == 0 || strings.TrimSpace(in.Date) == "" {
		return nil, apperr.Validation("propertyId, amount and date are required")
	}
	if in.Amount <= 0 {
		return nil, ErrInvalidBookingAmount
	}
	start, err := time.Parse(dateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, apperr.Validation("date must be YYYY-MM-DD")
	}
	end := start
	if strings.TrimSpace(in.EndDate) != "" {
		end, err = time.Parse(dateLayout, strings.TrimSpace(in.EndDate))
		if err != nil {
			return nil, apperr.Validation("endDate must be YYYY-MM-DD")
		}
		if end.Before(start) {
			return nil, apperr.Validation("endDate cannot be before date")
		}
	}

	p, err := s.props.GetByID(ctx, in.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if !p.Available {
		return nil, ErrPropertyUnavailable
	}

	b := &models.Booking{
		PropertyID: p.ID,
		CustomerID: customerID,
		BrokerID:   p.BrokerID,
		StartDate:  start,
		EndDate:    end,
		Amount:     in.Amount,
		Status:     domain.BookingPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.notifier.NotifyNewBooking(ctx, p.OwnerID, b, p.Title)
	publish(ctx, s.sink, bookingEvent(events.TypeBookingCreated, b))
	return b, nil
}

// ListForOwner returns bookings across every property the owner holds.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID uint) ([]models.Booking, error) {
	ids, err := s.props.IDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByPropertyIDs(ctx, ids)
}

func (s *BookingService) ListForCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

func (s *BookingService) ListAll(ctx context.Context, status string, page, limit int) ([]models.Booking, int64, error) {
	var st domain.BookingStatus
	if status != "" {
		parsed, err := domain.ParseBookingStatus(status)
		if err != nil {
			return nil, 0, apperr.Validation(err.Error())
		}
		st = parsed
	}
	return s.bookings.ListAll(ctx, st, page, limit)
}

func (s *BookingService) Get(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// Cancel lets a customer cancel their own booking.
func (s *BookingService) Cancel(ctx context.Context, customerID, bookingID uint) (*models.Booking, error) {
	b, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrNotBookingCustomer
	}
	if err := s.transition(ctx, b, domain.BookingCancelled); err != nil {
		return nil, err
	}
	if p, err := s.props.GetByIDUnscoped(ctx, b.PropertyID); err == nil {
		s.notifier.NotifyBookingStatus(ctx, p.OwnerID, b)
	}
	return b, nil
}

// SetStatus is used by the property owner or an admin.
func (s *BookingService) SetStatus(ctx context.Context, actor Actor, bookingID uint, status string) (*models.Booking, error) {
	next, err := domain.ParseBookingStatus(status)
	if err != nil {
		return nil, apperr.Validation("status must be one of pending, confirmed, cancelled")
	}
	b, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		p, err := s.props.GetByIDUnscoped(ctx, b.PropertyID)
		if err != nil {
			return nil, notFound(err, "Property not found")
		}
		if p.OwnerID != actor.ID {
			return nil, ErrNotPropertyOwner
		}
	}
	if err := s.transition(ctx, b, next); err != nil {
		return nil, err
	}
	s.notifier.NotifyBookingStatus(ctx, b.CustomerID, b)
	return b, nil
}

func (s *BookingService) transition(ctx context.Context, b *models.Booking, next domain.BookingStatus) error {
	if !b.Status.CanTransition(next) {
		return apperr.Domain("Cannot change booking from " + string(b.Status) + " to " + string(next))
	}
	if err := s.bookings.UpdateStatus(ctx, b, next); err != nil {
		return err
	}
	eventType := events.TypeBookingConfirmed
	if next == domain.BookingCancelled {
		eventType = events.TypeBookingCancelled
	}
	publish(ctx, s.sink, bookingEvent(eventType, b))
	return nil
}

func bookingEvent(eventType string, b *models.Booking) events.Event {
	return events.New(eventType, b.PropertyID, map[string]interface{}{
		"bookingId": b.ID,
		"status":    b.Status,
		"startDate": b.StartDate.Format(dateLayout),
		"endDate":   b.EndDate.Format(dateLayout),
	})
}
