// Package alert derives low-stock alerts from inventory snapshots and manages
// their acknowledge/clear lifecycle. It reads inventory state but never
// mutates it.
package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stocktrail/internal/model"
	"stocktrail/internal/repository"
	"stocktrail/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notification is a user-facing alert message. Tag keys the delivery channel's
// coalescing: repeated notifications with the same tag collapse into one.
type Notification struct {
	Title string
	Body  string
	Tag   string
}

// Notifier is the delivery platform boundary. Probe is the permission-request
// analog: enabling notifications only sticks when the probe succeeds.
type Notifier interface {
	Probe(ctx context.Context) error
	Notify(ctx context.Context, n Notification) error
}

// Engine owns the alert collection. Invariant: at most one unacknowledged
// alert exists per item id at any time.
type Engine struct {
	mu       sync.Mutex
	alerts   []model.LowStockAlert
	enabled  bool
	repo     repository.AlertRepository
	settings repository.SettingRepository
	notifier Notifier
	activity *store.ActivityStore
}

func NewEngine(repo repository.AlertRepository, settings repository.SettingRepository, notifier Notifier, activity *store.ActivityStore) *Engine {
	return &Engine{repo: repo, settings: settings, notifier: notifier, activity: activity}
}

// Hydrate loads persisted alerts and the notification flag. Corrupt or
// missing state degrades to empty rather than failing startup.
func (e *Engine) Hydrate(ctx context.Context) {
	alerts, err := e.repo.LoadAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("alert engine: hydrate failed, starting empty")
	} else {
		e.mu.Lock()
		e.alerts = alerts
		e.mu.Unlock()
	}

	val, ok, err := e.settings.Get(ctx, model.SettingNotificationsEnabled)
	if err != nil {
		log.Warn().Err(err).Msg("alert engine: notification flag load failed")
		return
	}
	if ok && val == "true" {
		e.mu.Lock()
		e.enabled = true
		e.mu.Unlock()
	}
	log.Info().Int("alerts", len(alerts)).Bool("notifications", ok && val == "true").Msg("alert engine hydrated")
}

// CheckLowStock evaluates an inventory snapshot and creates one alert per
// newly low item. Items that already carry an unacknowledged alert are
// skipped, so calling this on every snapshot change is idempotent.
// Returns the alerts created by this pass.
func (e *Engine) CheckLowStock(ctx context.Context, items []model.InventoryItem) []model.LowStockAlert {
	e.mu.Lock()
	pending := make(map[uuid.UUID]bool, len(e.alerts))
	for _, a := range e.alerts {
		if !a.Acknowledged {
			pending[a.ItemID] = true
		}
	}

	var created []model.LowStockAlert
	for _, item := range items {
		if !item.LowStock() || pending[item.ID] {
			continue
		}

		severity := model.SeverityWarning
		if item.Quantity == 0 {
			severity = model.SeverityCritical
		}

		a := model.LowStockAlert{
			ID:              uuid.New(),
			ItemID:          item.ID,
			ItemName:        item.Name,
			CurrentQuantity: item.Quantity,
			Threshold:       item.LowStockThreshold,
			Severity:        severity,
			Acknowledged:    false,
			CreatedAt:       time.Now().UTC(),
		}
		created = append(created, a)
		pending[item.ID] = true
	}

	// Newest alerts go first, matching display order.
	if len(created) > 0 {
		e.alerts = append(append([]model.LowStockAlert{}, created...), e.alerts...)
	}
	enabled := e.enabled
	e.mu.Unlock()

	for i := range created {
		a := created[i]
		if err := e.repo.Save(ctx, &a); err != nil {
			log.Error().Err(err).Str("alert_id", a.ID.String()).Msg("alert engine: persist failed")
		}
		log.Info().
			Str("item", a.ItemName).
			Int("quantity", a.CurrentQuantity).
			Int("threshold", a.Threshold).
			Str("severity", string(a.Severity)).
			Msg("low stock alert raised")

		if enabled && e.notifier != nil {
			n := Notification{
				Title: fmt.Sprintf("Low Stock Alert: %s", a.ItemName),
				Body:  fmt.Sprintf("Only %d items remaining (threshold: %d)", a.CurrentQuantity, a.Threshold),
				Tag:   "low-stock-" + a.ItemID.String(),
			}
			if err := e.notifier.Notify(ctx, n); err != nil {
				log.Error().Err(err).Str("tag", n.Tag).Msg("alert engine: notification dispatch failed")
			}
		}
	}

	return created
}

// Acknowledge marks the alert as seen. The alert stays queryable; the item
// may alert again once this one is acknowledged and it dips low anew.
func (e *Engine) Acknowledge(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	idx := -1
	for i := range e.alerts {
		if e.alerts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		e.mu.Unlock()
		return fmt.Errorf("%w: alert %s", store.ErrNotFound, id)
	}
	e.alerts[idx].Acknowledged = true
	a := e.alerts[idx]
	e.mu.Unlock()

	if err := e.repo.Save(ctx, &a); err != nil {
		log.Error().Err(err).Str("alert_id", id.String()).Msg("alert engine: ack persist failed")
	}
	e.activity.Append(ctx, model.ActionAlertAcknowledged,
		fmt.Sprintf("Acknowledged low stock alert for %s", a.ItemName),
		map[string]any{"alert_id": a.ID.String(), "item_id": a.ItemID.String()})
	return nil
}

// Clear removes the alert entirely.
func (e *Engine) Clear(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	idx := -1
	for i := range e.alerts {
		if e.alerts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		e.mu.Unlock()
		return fmt.Errorf("%w: alert %s", store.ErrNotFound, id)
	}
	a := e.alerts[idx]
	e.alerts = append(e.alerts[:idx], e.alerts[idx+1:]...)
	e.mu.Unlock()

	if err := e.repo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("alert_id", id.String()).Msg("alert engine: clear persist failed")
	}
	e.activity.Append(ctx, model.ActionAlertCleared,
		fmt.Sprintf("Cleared low stock alert for %s", a.ItemName),
		map[string]any{"alert_id": a.ID.String(), "item_id": a.ItemID.String()})
	return nil
}

// EnableNotifications probes the delivery channel and, only on success,
// persists the enabled flag — the platform permission-request analog.
func (e *Engine) EnableNotifications(ctx context.Context) error {
	if e.notifier == nil {
		return fmt.Errorf("no notification channel configured")
	}
	if err := e.notifier.Probe(ctx); err != nil {
		return fmt.Errorf("notification channel unavailable: %w", err)
	}

	e.mu.Lock()
	e.enabled = true
	e.mu.Unlock()

	if err := e.settings.Set(ctx, model.SettingNotificationsEnabled, "true"); err != nil {
		log.Error().Err(err).Msg("alert engine: notification flag persist failed")
	}
	return nil
}

// DisableNotifications is unconditional.
func (e *Engine) DisableNotifications(ctx context.Context) {
	e.mu.Lock()
	e.enabled = false
	e.mu.Unlock()

	if err := e.settings.Set(ctx, model.SettingNotificationsEnabled, "false"); err != nil {
		log.Error().Err(err).Msg("alert engine: notification flag persist failed")
	}
}

// NotificationsEnabled reports the current opt-in state.
func (e *Engine) NotificationsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// Alerts returns a snapshot of all alerts, newest-first.
func (e *Engine) Alerts() []model.LowStockAlert {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.LowStockAlert, len(e.alerts))
	copy(out, e.alerts)
	return out
}

// Unacknowledged filters pending alerts, preserving order.
func (e *Engine) Unacknowledged() []model.LowStockAlert {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []model.LowStockAlert
	for _, a := range e.alerts {
		if !a.Acknowledged {
			out = append(out, a)
		}
	}
	return out
}
