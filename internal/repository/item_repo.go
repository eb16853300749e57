package repository

import (
	"context"

	"stocktrail/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository is the durable backing for the in-memory inventory store.
// The store hydrates once at startup and writes through on every mutation;
// services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ItemRepository interface {
	LoadAll(ctx context.Context) ([]model.InventoryItem, error)
	Upsert(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearDirty(ctx context.Context, ids []uuid.UUID) error
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

// LoadAll returns every item in insertion order (store order).
func (r *itemRepo) LoadAll(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) Upsert(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(item).Error
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.InventoryItem{}, "id = ?", id).Error
}

func (r *itemRepo) ClearDirty(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.InventoryItem{}).
		Where("id IN ?", ids).
		Update("dirty", false).Error
}
