package skills

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/glasslink/skillrt/types"
)

// Stats tracks per-skill invocation counts.
type Stats struct {
	Invocations int64      `json:"invocations"`
	Successes   int64      `json:"successes"`
	Failures    int64      `json:"failures"`
	LastInvoked *time.Time `json:"last_invoked,omitempty"`
}

// Registration is the immutable bundle stored for one skill id:
// descriptor, runner, and associated triggers. The invoke closure
// captures the concrete type triple so the router can dispatch without
// knowing it.
type Registration struct {
	ID         string
	Descriptor any
	Runner     any
	Triggers   []string

	invoke func(ctx context.Context, payload any) (any, error)
	stats  Stats
}

// Registry 管理技能注册与触发词索引。
// 并发读安全；同 id 重复注册为整体原子替换（更新清单依赖此语义）。
type Registry struct {
	mu       sync.RWMutex
	skills   map[string]*Registration
	triggers map[string][]string // normalized trigger -> skill ids, registration order
	logger   *zap.Logger
}

// NewRegistry creates an empty skill registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		skills:   make(map[string]*Registration),
		triggers: make(map[string][]string),
		logger:   logger.With(zap.String("component", "skill_registry")),
	}
}

// Register inserts or replaces the registration for id. Last write
// wins: a replacement drops the previous descriptor, runner, and
// trigger associations in one step. Triggers are normalized to
// lowercase on insertion.
func Register[P, F, O any](r *Registry, id string, descriptor Descriptor[P, F], runner Runner[F, O], triggers ...string) error {
	reg, err := newRegistration(id, descriptor, runner, triggers)
	if err != nil {
		return err
	}
	r.insertAll([]*Registration{reg})
	return nil
}

// newRegistration builds the bundle and its type-erased invoke path.
func newRegistration[P, F, O any](id string, descriptor Descriptor[P, F], runner Runner[F, O], triggers []string) (*Registration, error) {
	if id == "" {
		return nil, types.NewError(types.ErrBadDefinition, "skill id is required")
	}
	if descriptor == nil {
		return nil, types.NewError(types.ErrBadDefinition, "descriptor is required").WithSkill(id)
	}
	if runner == nil {
		return nil, types.NewError(types.ErrBadDefinition, "runner is required").WithSkill(id)
	}

	normalized := make([]string, 0, len(triggers))
	for _, t := range triggers {
		t = NormalizeTrigger(t)
		if t != "" {
			normalized = append(normalized, t)
		}
	}

	invoke := func(ctx context.Context, payload any) (any, error) {
		p, ok := payload.(P)
		if !ok {
			return nil, types.NewError(types.ErrTypeMismatch, "payload type does not match registration").WithSkill(id)
		}
		feats, err := descriptor.BuildFeatures(p)
		if err != nil {
			return nil, types.NewError(types.ErrFeatureBuild, "build features").WithSkill(id).WithCause(err)
		}
		out, err := runner.RunSkill(ctx, feats)
		if err != nil {
			return nil, types.NewError(types.ErrInference, "run skill").WithSkill(id).WithCause(err)
		}
		return out, nil
	}

	return &Registration{
		ID:         id,
		Descriptor: descriptor,
		Runner:     runner,
		Triggers:   normalized,
		invoke:     invoke,
	}, nil
}

// insertAll applies a batch of registrations under one lock so a
// definition load is observed whole or not at all.
func (r *Registry) insertAll(regs []*Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range regs {
		if old, ok := r.skills[reg.ID]; ok {
			r.dropTriggersLocked(old)
		}
		r.skills[reg.ID] = reg
		for _, t := range reg.Triggers {
			if !containsID(r.triggers[t], reg.ID) {
				r.triggers[t] = append(r.triggers[t], reg.ID)
			}
		}
		r.logger.Info("skill registered",
			zap.String("id", reg.ID),
			zap.Strings("triggers", reg.Triggers),
		)
	}
}

func (r *Registry) dropTriggersLocked(reg *Registration) {
	for _, t := range reg.Triggers {
		ids := r.triggers[t]
		for i, id := range ids {
			if id == reg.ID {
				r.triggers[t] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(r.triggers[t]) == 0 {
			delete(r.triggers, t)
		}
	}
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// NormalizeTrigger lowercases and trims a trigger phrase. Lookup and
// insertion both go through it.
func NormalizeTrigger(trigger string) string {
	return strings.ToLower(strings.TrimSpace(trigger))
}

// IsRegistered reports whether id has a registration.
func (r *Registry) IsRegistered(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.skills[id]
	return ok
}

// Registration returns the bundle for id.
func (r *Registry) Registration(id string) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.skills[id]
	return reg, ok
}

// DescriptorFor returns the descriptor for id with the requested type
// parameters. Returns false when the id is absent or the registered
// descriptor has a different triple.
func DescriptorFor[P, F any](r *Registry, id string) (Descriptor[P, F], bool) {
	reg, ok := r.Registration(id)
	if !ok {
		return nil, false
	}
	d, ok := reg.Descriptor.(Descriptor[P, F])
	return d, ok
}

// RunnerFor returns the runner for id with the requested type
// parameters, false on absence or mismatch.
func RunnerFor[F, O any](r *Registry, id string) (Runner[F, O], bool) {
	reg, ok := r.Registration(id)
	if !ok {
		return nil, false
	}
	run, ok := reg.Runner.(Runner[F, O])
	return run, ok
}

// SkillByTrigger resolves a trigger phrase to a registration. When
// several skills share the trigger, the first one registered wins;
// SkillsByTrigger exposes the full set.
func (r *Registry) SkillByTrigger(trigger string) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.triggers[NormalizeTrigger(trigger)]
	if len(ids) == 0 {
		return nil, false
	}
	reg, ok := r.skills[ids[0]]
	return reg, ok
}

// SkillsByTrigger returns every skill id mapped to the trigger, in
// registration order.
func (r *Registry) SkillsByTrigger(trigger string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.triggers[NormalizeTrigger(trigger)]...)
}

// ListSkills returns the registered skill ids, sorted.
func (r *Registry) ListSkills() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.skills))
	for id := range r.skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ListTriggers returns the normalized trigger phrases, sorted.
func (r *Registry) ListTriggers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.triggers))
	for t := range r.triggers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Invoke runs the skill's build+run pipeline over the payload and
// updates its stats. Unknown ids fail with SKILL_NOT_FOUND.
func (r *Registry) Invoke(ctx context.Context, id string, payload any) (any, error) {
	r.mu.RLock()
	reg, ok := r.skills[id]
	r.mu.RUnlock()
	if !ok {
		return nil, types.NewError(types.ErrSkillNotFound, "skill not registered").WithSkill(id)
	}

	out, err := reg.invoke(ctx, payload)

	now := time.Now()
	r.mu.Lock()
	// The registration may have been replaced mid-flight; stats go to
	// whichever bundle currently owns the id.
	if cur, ok := r.skills[id]; ok {
		cur.stats.Invocations++
		if err != nil {
			cur.stats.Failures++
		} else {
			cur.stats.Successes++
		}
		cur.stats.LastInvoked = &now
	}
	r.mu.Unlock()

	return out, err
}

// Stats returns a snapshot of the skill's invocation counters.
func (r *Registry) Stats(id string) (Stats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.skills[id]
	if !ok {
		return Stats{}, false
	}
	return reg.stats, true
}
