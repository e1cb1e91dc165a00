package inference

import (
	"context"

	"github.com/glasslink/skillrt/skills"
	"github.com/glasslink/skillrt/types"
)

// SessionRunner executes a skill through its hub session. It is the
// runner the declarative bootstrap wires for every vector skill.
type SessionRunner struct {
	hub     *Hub
	skillID string
}

// Runner returns the session-backed runner for a skill.
func (h *Hub) Runner(skillID string) *SessionRunner {
	return &SessionRunner{hub: h, skillID: skillID}
}

// RunnerFactory adapts the hub to the registry's bootstrap factory.
func (h *Hub) RunnerFactory() skills.RunnerFactory {
	return func(id string) (skills.VectorRunner, error) {
		return h.Runner(id), nil
	}
}

// RunSkill resolves the cached session and runs the features through
// it. The context is honored between steps; the backend call itself is
// synchronous and uninterruptible.
func (r *SessionRunner) RunSkill(ctx context.Context, features []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session, ok := r.hub.Session(r.skillID)
	if !ok {
		return nil, types.NewError(types.ErrSessionMissing, "no session available").WithSkill(r.skillID)
	}
	return session.Run(features)
}
