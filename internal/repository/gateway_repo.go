package repository

import (
	"context"

	"ecr/internal/domain"
	"ecr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GatewayRepository struct {
	db *gorm.DB
}

func NewGatewayRepository(db *gorm.DB) *GatewayRepository {
	return &GatewayRepository{db: db}
}

func (r *GatewayRepository) WithTx(tx *gorm.DB) *GatewayRepository {
	return &GatewayRepository{db: tx}
}

func (r *GatewayRepository) GetByPrincipal(ctx context.Context, userID uint, role domain.Role) (*models.PaymentGateway, error) {
	var g models.PaymentGateway
	err := r.db.WithContext(ctx).Where("user_id = ? AND role = ?", userID, role).First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GatewayRepository) Create(ctx context.Context, g *models.PaymentGateway) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GatewayRepository) Update(ctx context.Context, g *models.PaymentGateway) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(g).Error
}

func (r *GatewayRepository) DeleteByPrincipal(ctx context.Context, userID uint, role domain.Role) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND role = ?", userID, role).Delete(&models.PaymentGateway{})
	return res.RowsAffected, res.Error
}
