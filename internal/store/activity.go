package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"stocktrail/internal/model"
	"stocktrail/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ActivityStore is the append-only, time-ordered log of user actions.
// Entries live in memory newest-first and write through to the repository;
// a persistence failure is logged and never surfaced to the caller.
type ActivityStore struct {
	mu      sync.Mutex
	entries []model.ActivityEntry
	repo    repository.ActivityRepository
	resolve ActorResolver
}

func NewActivityStore(repo repository.ActivityRepository, resolve ActorResolver) *ActivityStore {
	if resolve == nil {
		resolve = ActorFromContext
	}
	return &ActivityStore{repo: repo, resolve: resolve}
}

// Hydrate loads persisted entries. Corrupt or missing state degrades to an
// empty log rather than failing startup.
func (s *ActivityStore) Hydrate(ctx context.Context) {
	entries, err := s.repo.LoadAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("activity store: hydrate failed, starting empty")
		return
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	log.Info().Int("entries", len(entries)).Msg("activity store hydrated")
}

// Append records an action attributed to the context's authenticated actor.
// Without an actor the call is a silent no-op — logging is best effort, not
// enforced auditing.
func (s *ActivityStore) Append(ctx context.Context, action model.ActivityAction, details string, metadata map[string]any) {
	actor, ok := s.resolve(ctx)
	if !ok {
		log.Debug().Str("action", string(action)).Msg("activity store: no authenticated actor, entry skipped")
		return
	}

	entry := model.ActivityEntry{
		ID:        uuid.New(),
		UserID:    actor.ID,
		UserName:  actor.Name,
		Action:    action,
		Details:   details,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}

	s.mu.Lock()
	s.entries = append([]model.ActivityEntry{entry}, s.entries...)
	s.mu.Unlock()

	if err := s.repo.Append(ctx, &entry); err != nil {
		log.Error().Err(err).Str("action", string(action)).Msg("activity store: persist failed")
	}
}

// ByDate returns entries whose timestamp falls on the given ISO calendar date
// ("2006-01-02"), preserving newest-first store order.
func (s *ActivityStore) ByDate(date string) []model.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.ActivityEntry
	for _, e := range s.entries {
		if strings.HasPrefix(e.Timestamp.Format(time.RFC3339), date) {
			out = append(out, e)
		}
	}
	return out
}

// Today is a convenience view over ByDate for the current date.
func (s *ActivityStore) Today() []model.ActivityEntry {
	return s.ByDate(time.Now().UTC().Format("2006-01-02"))
}

// Entries returns a snapshot of the full log, newest-first.
func (s *ActivityStore) Entries() []model.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ActivityEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ClearOld irreversibly removes entries older than daysToKeep days.
// Returns the number of removed entries.
func (s *ActivityStore) ClearOld(ctx context.Context, daysToKeep int) int {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysToKeep)

	s.mu.Lock()
	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		} else {
			removed++
		}
	}
	s.entries = kept
	s.mu.Unlock()

	if removed == 0 {
		return 0
	}
	if err := s.repo.DeleteBefore(ctx, cutoff); err != nil {
		log.Error().Err(err).Msg("activity store: retention delete failed")
	}
	log.Info().Int("removed", removed).Int("days_kept", daysToKeep).Msg("activity log pruned")
	return removed
}
