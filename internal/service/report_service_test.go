package service

import (
	"context"
	"testing"
	"time"

	"stocktrail/internal/alert"
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

type stubAlertRepo struct{}

func (stubAlertRepo) LoadAll(_ context.Context) ([]model.LowStockAlert, error) { return nil, nil }
func (stubAlertRepo) Save(_ context.Context, _ *model.LowStockAlert) error     { return nil }
func (stubAlertRepo) Delete(_ context.Context, _ uuid.UUID) error              { return nil }

type stubSettingRepo struct{}

func (stubSettingRepo) Get(_ context.Context, _ string) (string, bool, error) { return "", false, nil }
func (stubSettingRepo) Set(_ context.Context, _, _ string) error              { return nil }

// ── Helpers ──────────────────────────────────────────────────────────────────

func newReportFixture(t *testing.T) (*ReportService, *store.InventoryStore, *alert.Engine, context.Context) {
	t.Helper()
	activity := store.NewActivityStore(stubActivityRepo{}, nil)
	inventory := store.NewInventoryStore(stubItemRepo{}, activity)
	engine := alert.NewEngine(stubAlertRepo{}, stubSettingRepo{}, nil, activity)
	svc := NewReportService(inventory, activity, engine)
	ctx := store.WithActor(context.Background(), store.Actor{ID: uuid.New(), Name: "Reporter"})
	return svc, inventory, engine, ctx
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestDailyReportAggregates(t *testing.T) {
	svc, inventory, engine, ctx := newReportFixture(t)

	_, err := inventory.AddItem(ctx, model.InventoryItem{
		Name: "Plenty", SKU: "P1", Quantity: 100,
		Price: decimal.NewFromFloat(2.50), LowStockThreshold: 5,
	})
	require.NoError(t, err)
	_, err = inventory.AddItem(ctx, model.InventoryItem{
		Name: "Scarce", SKU: "S1", Quantity: 2,
		Price: decimal.NewFromInt(10), LowStockThreshold: 5,
	})
	require.NoError(t, err)
	engine.CheckLowStock(ctx, inventory.Items())

	today := time.Now().UTC().Format("2006-01-02")
	report := svc.Daily(today)

	assert.Equal(t, today, report.Date)
	assert.Equal(t, 2, report.TotalItems)
	assert.Equal(t, 1, report.LowStockItems)
	// 100 * 2.50 + 2 * 10 = 270
	assert.Equal(t, "270", report.TotalValue.String())
	assert.Equal(t, 2, report.ActivitiesCount)
	require.Len(t, report.OpenAlerts, 1)
	assert.Equal(t, "Scarce", report.OpenAlerts[0].ItemName)
}

func TestDailyReportEmptyDay(t *testing.T) {
	svc, _, _, _ := newReportFixture(t)

	report := svc.Daily("1999-01-01")

	assert.Zero(t, report.TotalItems)
	assert.Zero(t, report.ActivitiesCount)
	assert.True(t, report.TotalValue.IsZero())
	assert.Empty(t, report.TopActivities)
}

func TestDailyReportCapsTopActivities(t *testing.T) {
	svc, inventory, _, ctx := newReportFixture(t)

	for i := 0; i < 8; i++ {
		_, err := inventory.AddItem(ctx, model.InventoryItem{
			Name: "Item", SKU: uuid.NewString(), Quantity: 50,
			Price: decimal.NewFromInt(1), LowStockThreshold: 5,
		})
		require.NoError(t, err)
	}

	report := svc.Daily(time.Now().UTC().Format("2006-01-02"))

	assert.Equal(t, 8, report.ActivitiesCount)
	assert.Len(t, report.TopActivities, 5)
}

func TestRenderPDFProducesDocument(t *testing.T) {
	svc, inventory, engine, ctx := newReportFixture(t)

	_, err := inventory.AddItem(ctx, model.InventoryItem{
		Name: "Scarce", SKU: "S1", Quantity: 0,
		Price: decimal.NewFromInt(3), LowStockThreshold: 5,
	})
	require.NoError(t, err)
	engine.CheckLowStock(ctx, inventory.Items())

	pdf, err := svc.RenderPDF(svc.Daily(time.Now().UTC().Format("2006-01-02")))
	require.NoError(t, err)
	assert.True(t, len(pdf) > 500)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
