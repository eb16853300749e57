package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stocktrail/internal/model"
	"stocktrail/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InventoryStore owns the authoritative local set of inventory items.
//
// The collection lives in memory in insertion order and writes through to the
// repository on every mutation. Every create/update marks the item dirty;
// only MarkSynced — the sync manager's one sanctioned write path — clears it.
type InventoryStore struct {
	mu       sync.Mutex
	items    []model.InventoryItem
	repo     repository.ItemRepository
	activity *ActivityStore
}

func NewInventoryStore(repo repository.ItemRepository, activity *ActivityStore) *InventoryStore {
	return &InventoryStore{repo: repo, activity: activity}
}

// Hydrate loads persisted items. Corrupt or missing state degrades to an
// empty store rather than failing startup.
func (s *InventoryStore) Hydrate(ctx context.Context) {
	items, err := s.repo.LoadAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("inventory store: hydrate failed, starting empty")
		return
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	log.Info().Int("items", len(items)).Msg("inventory store hydrated")
}

func validateItem(item model.InventoryItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if item.SKU == "" {
		return fmt.Errorf("%w: sku is required", ErrValidation)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if item.LowStockThreshold < 0 {
		return fmt.Errorf("%w: low stock threshold must not be negative", ErrValidation)
	}
	return nil
}

// AddItem inserts a new item, marks it dirty, and logs an item_created entry.
// A zero id gets one assigned; an id that already exists is rejected.
func (s *InventoryStore) AddItem(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	if err := validateItem(item); err != nil {
		return model.InventoryItem{}, err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.Dirty = true

	s.mu.Lock()
	for _, existing := range s.items {
		if existing.ID == item.ID {
			s.mu.Unlock()
			return model.InventoryItem{}, fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
	}
	s.items = append(s.items, item)
	s.mu.Unlock()

	s.persist(ctx, item)

	s.activity.Append(ctx, model.ActionItemCreated,
		fmt.Sprintf("Created new item: %s", item.Name),
		map[string]any{"item_id": item.ID.String(), "item_name": item.Name, "quantity": item.Quantity})

	return item, nil
}

// UpdateItem replaces the stored record with the same id and marks it dirty.
// A quantity change logs quantity_adjusted with old and new values; any other
// change logs a generic item_updated entry.
func (s *InventoryStore) UpdateItem(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	if err := validateItem(item); err != nil {
		return model.InventoryItem{}, err
	}

	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == item.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return model.InventoryItem{}, fmt.Errorf("%w: item %s", ErrNotFound, item.ID)
	}

	old := s.items[idx]
	item.CreatedAt = old.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	item.Dirty = true
	s.items[idx] = item
	s.mu.Unlock()

	s.persist(ctx, item)

	if old.Quantity != item.Quantity {
		s.activity.Append(ctx, model.ActionQuantityAdjusted,
			fmt.Sprintf("Updated %s quantity from %d to %d", item.Name, old.Quantity, item.Quantity),
			map[string]any{
				"item_id":      item.ID.String(),
				"item_name":    item.Name,
				"old_quantity": old.Quantity,
				"new_quantity": item.Quantity,
			})
	} else {
		s.activity.Append(ctx, model.ActionItemUpdated,
			fmt.Sprintf("Updated item: %s", item.Name),
			map[string]any{"item_id": item.ID.String(), "item_name": item.Name})
	}

	return item, nil
}

// AdjustQuantity applies a delta to an item's quantity. The result may not go
// below zero.
func (s *InventoryStore) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (model.InventoryItem, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return model.InventoryItem{}, fmt.Errorf("%w: item %s", ErrNotFound, id)
	}

	old := s.items[idx]
	newQty := old.Quantity + delta
	if newQty < 0 {
		s.mu.Unlock()
		return model.InventoryItem{}, fmt.Errorf("%w: quantity cannot go below zero", ErrValidation)
	}
	s.items[idx].Quantity = newQty
	s.items[idx].UpdatedAt = time.Now().UTC()
	s.items[idx].Dirty = true
	updated := s.items[idx]
	s.mu.Unlock()

	s.persist(ctx, updated)

	s.activity.Append(ctx, model.ActionQuantityAdjusted,
		fmt.Sprintf("Updated %s quantity from %d to %d", updated.Name, old.Quantity, newQty),
		map[string]any{
			"item_id":      updated.ID.String(),
			"item_name":    updated.Name,
			"old_quantity": old.Quantity,
			"new_quantity": newQty,
		})

	return updated, nil
}

// DeleteItem removes the item and logs an item_deleted entry.
func (s *InventoryStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("item_id", id.String()).Msg("inventory store: delete persist failed")
	}

	s.activity.Append(ctx, model.ActionItemDeleted,
		fmt.Sprintf("Deleted item: %s", removed.Name),
		map[string]any{"item_id": removed.ID.String(), "item_name": removed.Name})

	return nil
}

// ItemByID returns a copy of the item, if present.
func (s *InventoryStore) ItemByID(id uuid.UUID) (model.InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.InventoryItem{}, false
}

// ItemByBarcode returns the first item whose barcode matches, in store order.
// Barcodes are not guaranteed unique — first match wins.
func (s *InventoryStore) ItemByBarcode(barcode string) (model.InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Barcode != "" && item.Barcode == barcode {
			return item, true
		}
	}
	return model.InventoryItem{}, false
}

// Items returns a snapshot of all items in store order.
func (s *InventoryStore) Items() []model.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.InventoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// UnsyncedItems returns the items with local changes pending upload,
// in store order.
func (s *InventoryStore) UnsyncedItems() []model.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.InventoryItem
	for _, item := range s.items {
		if item.Dirty {
			out = append(out, item)
		}
	}
	return out
}

// MarkSynced clears the dirty flag for exactly the given ids — the snapshot a
// sync run actually uploaded. Items mutated while the run was in flight keep
// their flag and go up next cycle.
func (s *InventoryStore) MarkSynced(ctx context.Context, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	idSet := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	s.mu.Lock()
	for i := range s.items {
		if _, ok := idSet[s.items[i].ID]; ok {
			s.items[i].Dirty = false
		}
	}
	s.mu.Unlock()

	if err := s.repo.ClearDirty(ctx, ids); err != nil {
		log.Error().Err(err).Int("count", len(ids)).Msg("inventory store: clear dirty persist failed")
	}
}

// persist writes one item through to the repository, best effort.
func (s *InventoryStore) persist(ctx context.Context, item model.InventoryItem) {
	if err := s.repo.Upsert(ctx, &item); err != nil {
		log.Error().Err(err).Str("item_id", item.ID.String()).Msg("inventory store: persist failed")
	}
}
