package repository

import (
	"context"
	"time"

	"ecr/internal/domain"
	"ecr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

func (r *CommissionRepository) WithTx(tx *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: tx}
}

// CreateIfAbsent inserts c unless a commission for the same booking exists.
// It reports whether a row was inserted; c is loaded with the stored row either way.
func (r *CommissionRepository) CreateIfAbsent(ctx context.Context, c *models.Commission) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "booking_id"}}, DoNothing: true}).
		Create(c)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	existing, err := r.GetByBookingID(ctx, c.BookingID)
	if err != nil {
		return false, err
	}
	*c = *existing
	return false, nil
}

func (r *CommissionRepository) GetByID(ctx context.Context, id uint) (*models.Commission, error) {
	var c models.Commission
	err := r.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommissionRepository) GetByBookingID(ctx context.Context, bookingID uint) (*models.Commission, error) {
	var c models.Commission
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByOwner preloads only the broker's id, name and email.
func (r *CommissionRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Commission, error) {
	var list []models.Commission
	err := r.db.WithContext(ctx).
		Preload("Broker").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *CommissionRepository) ListByBroker(ctx context.Context, brokerID uint) ([]models.Commission, error) {
	var list []models.Commission
	err := r.db.WithContext(ctx).Where("broker_id = ?", brokerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *CommissionRepository) ListAll(ctx context.Context, page, limit int) ([]models.Commission, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Commission{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Commission
	err := r.db.WithContext(ctx).Preload("Broker").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// MarkPaid moves a pending commission to paid. Zero rows affected means the
// commission was already paid (or is gone).
func (r *CommissionRepository) MarkPaid(ctx context.Context, id uint, paidAt time.Time, details, notes string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Commission{}).
		Where("id = ? AND status = ?", id, domain.CommissionPending).
		Updates(map[string]interface{}{
			"status":          domain.CommissionPaid,
			"paid_at":         paidAt,
			"payment_details": details,
			"notes":           notes,
		})
	return res.RowsAffected, res.Error
}

func (r *CommissionRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Commission{}, id)
	return res.RowsAffected, res.Error
}
