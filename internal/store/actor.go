package store

import (
	"context"

	"github.com/google/uuid"
)

// Actor identifies the authenticated user a mutation is attributed to.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// ActorResolver yields the current actor for a request context, if any.
// The activity store receives one at construction instead of reaching into
// session state itself.
type ActorResolver func(ctx context.Context) (Actor, bool)

type actorCtxKey struct{}

// WithActor returns a context carrying the authenticated actor.
// The auth middleware attaches it to every authenticated request.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, a)
}

// ActorFromContext is the default ActorResolver.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorCtxKey{}).(Actor)
	return a, ok
}
