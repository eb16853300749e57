package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"stocktrail/internal/infra"
	"stocktrail/internal/model"
	"stocktrail/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Display delays before the status decays back to idle.
const (
	successDecay = 2 * time.Second
	errorDecay   = 3 * time.Second
)

var (
	// ErrSyncInFlight: a run is already in progress. Overlapping runs would
	// double-upload and race on the dirty flags, so the second caller is
	// rejected outright rather than queued.
	ErrSyncInFlight = errors.New("sync already in progress")

	// ErrOffline: the remote is unreachable; nothing was attempted.
	ErrOffline = errors.New("offline")
)

// RemoteClient uploads a batch of dirty items to the remote authority.
type RemoteClient interface {
	UploadItems(ctx context.Context, items []model.InventoryItem) error
}

// Manager orchestrates sync runs. At most one run is in flight at a time;
// each run snapshots the dirty set, uploads it through the circuit breaker
// under a timeout, and clears dirty flags only for the uploaded ids.
type Manager struct {
	inventory *store.InventoryStore
	remote    RemoteClient
	monitor   *Monitor
	cb        *infra.CircuitBreaker
	timeout   time.Duration
	interval  time.Duration

	inFlight atomic.Bool

	mu     sync.Mutex
	status model.SyncStatus
	decay  *time.Timer
}

func NewManager(inventory *store.InventoryStore, remote RemoteClient, monitor *Monitor, cb *infra.CircuitBreaker, timeout, interval time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	m := &Manager{
		inventory: inventory,
		remote:    remote,
		monitor:   monitor,
		cb:        cb,
		timeout:   timeout,
		interval:  interval,
		status:    model.SyncIdle,
	}
	// Auto-sync when connectivity comes back and local changes are pending.
	monitor.OnTransition(func(online bool) {
		if online && len(m.inventory.UnsyncedItems()) > 0 {
			go m.syncQuietly(context.Background())
		}
	})
	return m
}

// Status returns the current display state.
func (m *Manager) Status() model.SyncStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Sync performs one run. Offline or an empty dirty set are no-ops that leave
// the status at idle. On failure the dirty set is left intact for the next
// manual trigger or reconnect.
func (m *Manager) Sync(ctx context.Context) error {
	if !m.monitor.Online() {
		return ErrOffline
	}

	snapshot := m.inventory.UnsyncedItems()
	if len(snapshot) == 0 {
		return nil
	}

	if !m.inFlight.CompareAndSwap(false, true) {
		return ErrSyncInFlight
	}
	defer m.inFlight.Store(false)

	m.setStatus(model.SyncSyncing, 0)
	log.Info().Int("items", len(snapshot)).Msg("sync run started")

	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.cb.Execute(func() error {
		return m.remote.UploadItems(runCtx, snapshot)
	})
	if err != nil {
		m.setStatus(model.SyncError, errorDecay)
		log.Error().Err(err).Msg("sync run failed, dirty set kept for retry")
		return fmt.Errorf("sync: %w", err)
	}

	// Clear dirty only for the uploaded snapshot. Anything mutated while the
	// upload was in flight stays dirty and goes up next cycle.
	ids := make([]uuid.UUID, len(snapshot))
	for i, item := range snapshot {
		ids[i] = item.ID
	}
	m.inventory.MarkSynced(ctx, ids)

	m.setStatus(model.SyncSuccess, successDecay)
	log.Info().Int("items", len(ids)).Msg("sync run completed")
	return nil
}

// Start launches the periodic backstop: even without a connectivity flip,
// dirty items get drained every interval.
func (m *Manager) Start(ctx context.Context) {
	if m.interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		log.Info().Dur("interval", m.interval).Msg("sync scheduler started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("sync scheduler shutting down")
				return
			case <-ticker.C:
				m.syncQuietly(ctx)
			}
		}
	}()
}

// syncQuietly runs a sync and swallows the expected non-errors.
func (m *Manager) syncQuietly(ctx context.Context) {
	err := m.Sync(ctx)
	if err != nil && !errors.Is(err, ErrOffline) && !errors.Is(err, ErrSyncInFlight) {
		log.Debug().Err(err).Msg("background sync attempt failed")
	}
}

// setStatus updates the display state; a non-zero decay schedules the drop
// back to idle. A newer transition cancels any pending decay.
func (m *Manager) setStatus(s model.SyncStatus, decayAfter time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.decay != nil {
		m.decay.Stop()
		m.decay = nil
	}
	m.status = s
	if decayAfter > 0 {
		m.decay = time.AfterFunc(decayAfter, func() {
			m.mu.Lock()
			// Only decay if no newer run has taken over the status.
			if m.status == s {
				m.status = model.SyncIdle
			}
			m.mu.Unlock()
		})
	}
}
