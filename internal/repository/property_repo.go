package repository

import (
	"context"

	"ecr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyFilter struct {
	Location string
	MinPrice float64
	MaxPrice float64
	Page     int
	Limit    int
}

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) WithTx(tx *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: tx}
}

func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDUnscoped also finds soft-deleted listings; settlement needs the
// broker of a property even if it was delisted after the booking.
func (r *PropertyRepository) GetByIDUnscoped(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	err := r.db.WithContext(ctx).Unscoped().First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepository) List(ctx context.Context, f PropertyFilter) ([]models.Property, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Property{})
	if f.Location != "" {
		q = q.Where("location LIKE ?", "%"+f.Location+"%")
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Property
	err := q.Order("created_at DESC").Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&list).Error
	return list, total, err
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Property, error) {
	var list []models.Property
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *PropertyRepository) IDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Property{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error
	return ids, err
}

func (r *PropertyRepository) Update(ctx context.Context, p *models.Property) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *PropertyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Property{}, id).Error
}
