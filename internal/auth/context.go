package auth

import (
	"context"

	"github.com/shenikar/irdesk/internal/models"
)

type contextKey string

const actorKey contextKey = "irdesk_actor"

// WithActor returns a context carrying actor.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	return actor, ok
}
