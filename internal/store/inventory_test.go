package store

import (
	"context"
	"testing"
	"time"

	"stocktrail/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory repository stubs ───────────────────────────────────────────────

type stubItemRepo struct {
	saved   map[uuid.UUID]model.InventoryItem
	deleted []uuid.UUID
	cleared []uuid.UUID
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{saved: make(map[uuid.UUID]model.InventoryItem)}
}

func (r *stubItemRepo) LoadAll(_ context.Context) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, item := range r.saved {
		out = append(out, item)
	}
	return out, nil
}

func (r *stubItemRepo) Upsert(_ context.Context, item *model.InventoryItem) error {
	r.saved[item.ID] = *item
	return nil
}

func (r *stubItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.saved, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubItemRepo) ClearDirty(_ context.Context, ids []uuid.UUID) error {
	r.cleared = append(r.cleared, ids...)
	return nil
}

type stubActivityRepo struct{ appended []model.ActivityEntry }

func (r *stubActivityRepo) LoadAll(_ context.Context) ([]model.ActivityEntry, error) {
	return nil, nil
}

func (r *stubActivityRepo) Append(_ context.Context, entry *model.ActivityEntry) error {
	r.appended = append(r.appended, *entry)
	return nil
}

func (r *stubActivityRepo) DeleteBefore(_ context.Context, _ time.Time) error { return nil }

// ── Helpers ──────────────────────────────────────────────────────────────────

func testActor() Actor {
	return Actor{ID: uuid.New(), Name: "Test User"}
}

func newTestStores() (*InventoryStore, *ActivityStore, context.Context) {
	activity := NewActivityStore(&stubActivityRepo{}, nil)
	inventory := NewInventoryStore(newStubItemRepo(), activity)
	ctx := WithActor(context.Background(), testActor())
	return inventory, activity, ctx
}

func sampleItem(name string, qty int) model.InventoryItem {
	return model.InventoryItem{
		Name:              name,
		SKU:               "SKU-" + name,
		Quantity:          qty,
		Price:             decimal.NewFromFloat(9.99),
		LowStockThreshold: 5,
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestAddItemMarksDirtyAndAssignsID(t *testing.T) {
	inventory, _, ctx := newTestStores()

	item, err := inventory.AddItem(ctx, sampleItem("Widget", 10))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.True(t, item.Dirty)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Len(t, inventory.UnsyncedItems(), 1)
}

func TestAddItemRejectsDuplicateID(t *testing.T) {
	inventory, _, ctx := newTestStores()

	first, err := inventory.AddItem(ctx, sampleItem("Widget", 10))
	require.NoError(t, err)

	dup := sampleItem("Other", 3)
	dup.ID = first.ID
	_, err = inventory.AddItem(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Len(t, inventory.Items(), 1)
}

func TestAddItemValidation(t *testing.T) {
	inventory, _, ctx := newTestStores()

	missingName := sampleItem("", 1)
	_, err := inventory.AddItem(ctx, missingName)
	assert.ErrorIs(t, err, ErrValidation)

	negative := sampleItem("Widget", -1)
	_, err = inventory.AddItem(ctx, negative)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateItemNotFound(t *testing.T) {
	inventory, _, ctx := newTestStores()

	missing := sampleItem("Ghost", 1)
	missing.ID = uuid.New()
	_, err := inventory.UpdateItem(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateItemPreservesCreatedAt(t *testing.T) {
	inventory, _, ctx := newTestStores()

	created, err := inventory.AddItem(ctx, sampleItem("Widget", 10))
	require.NoError(t, err)

	changed := created
	changed.Name = "Widget v2"
	updated, err := inventory.UpdateItem(ctx, changed)
	require.NoError(t, err)

	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.Dirty)
	assert.Equal(t, "Widget v2", updated.Name)
}

func TestUpdateQuantityChangeLogsOldAndNew(t *testing.T) {
	inventory, activity, ctx := newTestStores()

	created, err := inventory.AddItem(ctx, sampleItem("Widget", 10))
	require.NoError(t, err)

	changed := created
	changed.Quantity = 3
	_, err = inventory.UpdateItem(ctx, changed)
	require.NoError(t, err)

	entries := activity.Entries()
	require.NotEmpty(t, entries)
	latest := entries[0]
	assert.Equal(t, model.ActionQuantityAdjusted, latest.Action)
	assert.Equal(t, 10, latest.Metadata["old_quantity"])
	assert.Equal(t, 3, latest.Metadata["new_quantity"])
}

func TestAdjustQuantityClampsAtZero(t *testing.T) {
	inventory, _, ctx := newTestStores()

	created, err := inventory.AddItem(ctx, sampleItem("Widget", 2))
	require.NoError(t, err)

	_, err = inventory.AdjustQuantity(ctx, created.ID, -5)
	assert.ErrorIs(t, err, ErrValidation)

	item, ok := inventory.ItemByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
}

func TestDeleteItemNotFound(t *testing.T) {
	inventory, _, ctx := newTestStores()

	err := inventory.DeleteItem(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItemLogsActivity(t *testing.T) {
	inventory, activity, ctx := newTestStores()

	created, err := inventory.AddItem(ctx, sampleItem("Widget", 1))
	require.NoError(t, err)

	require.NoError(t, inventory.DeleteItem(ctx, created.ID))
	assert.Empty(t, inventory.Items())

	entries := activity.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, model.ActionItemDeleted, entries[0].Action)
}

func TestItemByBarcodeFirstMatchWins(t *testing.T) {
	inventory, _, ctx := newTestStores()

	first := sampleItem("First", 1)
	first.Barcode = "123456"
	second := sampleItem("Second", 2)
	second.Barcode = "123456"

	_, err := inventory.AddItem(ctx, first)
	require.NoError(t, err)
	_, err = inventory.AddItem(ctx, second)
	require.NoError(t, err)

	found, ok := inventory.ItemByBarcode("123456")
	require.True(t, ok)
	assert.Equal(t, "First", found.Name)
}

func TestItemByBarcodeSkipsEmpty(t *testing.T) {
	inventory, _, ctx := newTestStores()

	_, err := inventory.AddItem(ctx, sampleItem("NoBarcode", 1))
	require.NoError(t, err)

	_, ok := inventory.ItemByBarcode("")
	assert.False(t, ok)
}

func TestMarkSyncedClearsOnlyGivenIDs(t *testing.T) {
	repo := newStubItemRepo()
	activity := NewActivityStore(&stubActivityRepo{}, nil)
	inventory := NewInventoryStore(repo, activity)
	ctx := WithActor(context.Background(), testActor())

	a, err := inventory.AddItem(ctx, sampleItem("A", 1))
	require.NoError(t, err)
	b, err := inventory.AddItem(ctx, sampleItem("B", 2))
	require.NoError(t, err)
	c, err := inventory.AddItem(ctx, sampleItem("C", 3))
	require.NoError(t, err)

	// Only A and B were part of the uploaded snapshot.
	inventory.MarkSynced(ctx, []uuid.UUID{a.ID, b.ID})

	unsynced := inventory.UnsyncedItems()
	require.Len(t, unsynced, 1)
	assert.Equal(t, c.ID, unsynced[0].ID)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, repo.cleared)
}
