package repository

import (
	"context"
	"time"

	"stocktrail/internal/model"

	"gorm.io/gorm"
)

// ActivityRepository persists the append-only activity log.
type ActivityRepository interface {
	// LoadAll returns entries newest-first (display order).
	LoadAll(ctx context.Context) ([]model.ActivityEntry, error)
	Append(ctx context.Context, entry *model.ActivityEntry) error
	DeleteBefore(ctx context.Context, cutoff time.Time) error
}

type activityRepo struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) ActivityRepository { return &activityRepo{db: db} }

func (r *activityRepo) LoadAll(ctx context.Context) ([]model.ActivityEntry, error) {
	var entries []model.ActivityEntry
	err := r.db.WithContext(ctx).Order("timestamp DESC").Find(&entries).Error
	return entries, err
}

func (r *activityRepo) Append(ctx context.Context, entry *model.ActivityEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityRepo) DeleteBefore(ctx context.Context, cutoff time.Time) error {
	return r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&model.ActivityEntry{}).Error
}
