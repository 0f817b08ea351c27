// Package audit stamps creator and modifier metadata onto entities right before they are saved.
package audit

import (
	"context"
	"time"

	"gitlab.com/dirk.krummacker/contacts-page/internal/model"
)

// DefaultActor is recorded when a write arrives without a caller identity.
const DefaultActor = "system"

// State describes what is about to happen to a row.
type State int

const (
	Added State = iota
	Modified
)

func (s State) String() string {
	switch s {
	case Added:
		return "added"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is one entity that is about to be written.
type Change struct {
	Entity any
	State  State
}

// Hook sets the audit fields of every auditable entity in a unit of work.
type Hook struct {
	now func() time.Time
}

// NewHook returns a hook that reads the time from now. A nil now uses the wall clock.
func NewHook(now func() time.Time) *Hook {
	if now == nil {
		now = time.Now
	}
	return &Hook{now: now}
}

// BeforeSave stamps all changes with actor and the current UTC time. Entities that do not
// implement model.Auditable are left alone. It returns the number of stamped entities.
func (h *Hook) BeforeSave(actor string, changes ...Change) int {
	if actor == "" {
		actor = DefaultActor
	}
	now := h.now().UTC()
	stamped := 0
	for _, change := range changes {
		entity, ok := change.Entity.(model.Auditable)
		if !ok {
			continue
		}
		switch change.State {
		case Added:
			entity.MarkCreated(actor, now)
		case Modified:
			entity.MarkModified(actor, now)
		default:
			continue
		}
		stamped++
	}
	return stamped
}

type actorKey struct{}

// WithActor returns a copy of ctx that carries the caller identity. It is used where the write
// path cannot take the actor as a parameter, e.g. inside ORM callbacks.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the caller identity stored by WithActor, or DefaultActor.
func ActorFrom(ctx context.Context) string {
	if ctx == nil {
		return DefaultActor
	}
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return DefaultActor
}
