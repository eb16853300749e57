package repository

import (
	"context"

	"stocktrail/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertRepository persists low-stock alerts across restarts.
type AlertRepository interface {
	// LoadAll returns alerts newest-first (display order).
	LoadAll(ctx context.Context) ([]model.LowStockAlert, error)
	Save(ctx context.Context, alert *model.LowStockAlert) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type alertRepo struct{ db *gorm.DB }

func NewAlertRepository(db *gorm.DB) AlertRepository { return &alertRepo{db: db} }

func (r *alertRepo) LoadAll(ctx context.Context) ([]model.LowStockAlert, error) {
	var alerts []model.LowStockAlert
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) Save(ctx context.Context, alert *model.LowStockAlert) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(alert).Error
}

func (r *alertRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.LowStockAlert{}, "id = ?", id).Error
}
