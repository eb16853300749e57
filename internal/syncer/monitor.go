// Package syncer reconciles locally dirty inventory records with the remote
// authority: a connectivity monitor decides when the remote is reachable and
// a manager drains the dirty set in one-shot batch uploads.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ProbeFunc checks remote reachability; a nil error means online.
type ProbeFunc func(ctx context.Context) error

// Monitor wraps the reachability probe into a boolean online/offline signal
// with transition callbacks. It starts offline until the first probe passes.
type Monitor struct {
	probe    ProbeFunc
	interval time.Duration

	mu       sync.Mutex
	online   bool
	handlers []func(online bool)
}

func NewMonitor(probe ProbeFunc, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Monitor{probe: probe, interval: interval}
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnTransition registers a callback invoked on every online/offline flip.
// Register before Start; callbacks run on the monitor goroutine.
func (m *Monitor) OnTransition(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, fn)
}

// Start launches the probe loop. An immediate first probe runs before the
// ticker so startup state settles quickly. Respects ctx for shutdown.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		log.Info().Dur("interval", m.interval).Msg("connectivity monitor started")
		m.check(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("connectivity monitor shutting down")
				return
			case <-ticker.C:
				m.check(ctx)
			}
		}
	}()
}

func (m *Monitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	err := m.probe(probeCtx)
	cancel()
	m.set(err == nil)
}

// set records the new state and fires transition handlers on change.
// Exposed within the package for tests to drive transitions directly.
func (m *Monitor) set(online bool) {
	m.mu.Lock()
	changed := m.online != online
	m.online = online
	handlers := m.handlers
	m.mu.Unlock()

	if !changed {
		return
	}
	if online {
		log.Info().Msg("connectivity restored")
	} else {
		log.Warn().Msg("connectivity lost")
	}
	for _, fn := range handlers {
		fn(online)
	}
}
