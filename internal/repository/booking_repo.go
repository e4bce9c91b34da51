package repository

import (
	"context"

	"ecr/internal/domain"
	"ecr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetForUpdate locks the booking row for the rest of the transaction.
func (r *BookingRepository) GetForUpdate(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	list := []models.Booking{}
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *BookingRepository) ListByPropertyIDs(ctx context.Context, propertyIDs []uint) ([]models.Booking, error) {
	list := []models.Booking{}
	if len(propertyIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("property_id IN ?", propertyIDs).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *BookingRepository) ListAll(ctx context.Context, status domain.BookingStatus, page, limit int) ([]models.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	list := []models.Booking{}
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *models.Booking, status domain.BookingStatus) error {
	if err := r.db.WithContext(ctx).Model(b).Update("status", status).Error; err != nil {
		return err
	}
	b.Status = status
	return nil
}
