package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"stocktrail/internal/infra"
	"stocktrail/internal/model"
	"stocktrail/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory stubs ──────────────────────────────────────────────────────────

type stubItemRepo struct{}

func (stubItemRepo) LoadAll(_ context.Context) ([]model.InventoryItem, error) { return nil, nil }
func (stubItemRepo) Upsert(_ context.Context, _ *model.InventoryItem) error   { return nil }
func (stubItemRepo) Delete(_ context.Context, _ uuid.UUID) error              { return nil }
func (stubItemRepo) ClearDirty(_ context.Context, _ []uuid.UUID) error        { return nil }

type stubActivityRepo struct{}

func (stubActivityRepo) LoadAll(_ context.Context) ([]model.ActivityEntry, error) { return nil, nil }
func (stubActivityRepo) Append(_ context.Context, _ *model.ActivityEntry) error   { return nil }
func (stubActivityRepo) DeleteBefore(_ context.Context, _ time.Time) error        { return nil }

// stubRemote records uploads and can fail or block on demand.
type stubRemote struct {
	uploads  [][]model.InventoryItem
	err      error
	onUpload func()
}

func (r *stubRemote) UploadItems(_ context.Context, items []model.InventoryItem) error {
	if r.onUpload != nil {
		r.onUpload()
	}
	if r.err != nil {
		return r.err
	}
	r.uploads = append(r.uploads, items)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func newTestInventory() (*store.InventoryStore, context.Context) {
	activity := store.NewActivityStore(stubActivityRepo{}, nil)
	inventory := store.NewInventoryStore(stubItemRepo{}, activity)
	ctx := store.WithActor(context.Background(), store.Actor{ID: uuid.New(), Name: "Tester"})
	return inventory, ctx
}

func newTestManager(inventory *store.InventoryStore, remote RemoteClient, online bool) (*Manager, *Monitor) {
	monitor := NewMonitor(func(_ context.Context) error { return nil }, time.Minute)
	monitor.set(online)
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	m := NewManager(inventory, remote, monitor, cb, 5*time.Second, 0)
	return m, monitor
}

func addItem(t *testing.T, inventory *store.InventoryStore, ctx context.Context, name string) model.InventoryItem {
	t.Helper()
	item, err := inventory.AddItem(ctx, model.InventoryItem{
		Name:              name,
		SKU:               "SKU-" + name,
		Quantity:          10,
		Price:             decimal.NewFromInt(2),
		LowStockThreshold: 5,
	})
	require.NoError(t, err)
	return item
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestSyncOfflineIsRejected(t *testing.T) {
	inventory, ctx := newTestInventory()
	addItem(t, inventory, ctx, "A")
	remote := &stubRemote{}
	m, _ := newTestManager(inventory, remote, false)

	err := m.Sync(context.Background())

	assert.ErrorIs(t, err, ErrOffline)
	assert.Empty(t, remote.uploads)
	assert.Equal(t, model.SyncIdle, m.Status())
	assert.Len(t, inventory.UnsyncedItems(), 1)
}

func TestSyncEmptyDirtySetIsNoOp(t *testing.T) {
	inventory, _ := newTestInventory()
	remote := &stubRemote{}
	m, _ := newTestManager(inventory, remote, true)

	require.NoError(t, m.Sync(context.Background()))

	assert.Empty(t, remote.uploads)
	assert.Equal(t, model.SyncIdle, m.Status())
}

func TestSyncSuccessClearsDirtyFlags(t *testing.T) {
	inventory, ctx := newTestInventory()
	a := addItem(t, inventory, ctx, "A")
	b := addItem(t, inventory, ctx, "B")
	remote := &stubRemote{}
	m, _ := newTestManager(inventory, remote, true)

	require.NoError(t, m.Sync(context.Background()))

	require.Len(t, remote.uploads, 1)
	uploaded := remote.uploads[0]
	require.Len(t, uploaded, 2)
	assert.Equal(t, a.ID, uploaded[0].ID)
	assert.Equal(t, b.ID, uploaded[1].ID)
	assert.Empty(t, inventory.UnsyncedItems())
	assert.Equal(t, model.SyncSuccess, m.Status())
}

func TestSyncKeepsItemsMutatedMidRunDirty(t *testing.T) {
	inventory, ctx := newTestInventory()
	addItem(t, inventory, ctx, "A")
	var mutated model.InventoryItem
	remote := &stubRemote{}
	remote.onUpload = func() {
		// A write landing while the upload is in flight must survive the
		// post-run dirty clear.
		mutated = addItem(t, inventory, ctx, "B")
	}
	m, _ := newTestManager(inventory, remote, true)

	require.NoError(t, m.Sync(context.Background()))

	unsynced := inventory.UnsyncedItems()
	require.Len(t, unsynced, 1)
	assert.Equal(t, mutated.ID, unsynced[0].ID)
}

func TestSyncFailureKeepsDirtySet(t *testing.T) {
	inventory, ctx := newTestInventory()
	addItem(t, inventory, ctx, "A")
	remote := &stubRemote{err: errors.New("remote exploded")}
	m, _ := newTestManager(inventory, remote, true)

	err := m.Sync(context.Background())

	assert.Error(t, err)
	assert.Len(t, inventory.UnsyncedItems(), 1)
	assert.Equal(t, model.SyncError, m.Status())
}

func TestSyncRejectsConcurrentRun(t *testing.T) {
	inventory, ctx := newTestInventory()
	addItem(t, inventory, ctx, "A")

	started := make(chan struct{})
	release := make(chan struct{})
	remote := &stubRemote{}
	remote.onUpload = func() {
		close(started)
		<-release
	}
	m, _ := newTestManager(inventory, remote, true)

	done := make(chan error, 1)
	go func() { done <- m.Sync(context.Background()) }()

	<-started
	err := m.Sync(context.Background())
	assert.ErrorIs(t, err, ErrSyncInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestMonitorTransitionFiresHandlers(t *testing.T) {
	monitor := NewMonitor(func(_ context.Context) error { return nil }, time.Minute)

	var transitions []bool
	monitor.OnTransition(func(online bool) { transitions = append(transitions, online) })

	monitor.set(true)
	monitor.set(true) // no change, no callback
	monitor.set(false)

	assert.Equal(t, []bool{true, false}, transitions)
	assert.False(t, monitor.Online())
}
