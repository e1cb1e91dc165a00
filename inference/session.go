package inference

import (
	"fmt"
	"sync/atomic"
)

// Session wraps one cached backend instance for one skill. Sessions
// are created by the hub and shared by every caller; a failed run
// leaves the session cached and reusable.
type Session struct {
	skillID string
	backend Backend
	hub     *Hub

	active  atomic.Int64
	skipped atomic.Int64
}

// SkillID returns the skill the session belongs to.
func (s *Session) SkillID() string { return s.skillID }

// Run executes one forward pass. While the hub is idle it returns a
// zero vector of the backend's output shape without touching the
// backend, counted as skipped rather than active.
func (s *Session) Run(features []float64) ([]float64, error) {
	if s.hub.IsIdle() {
		s.skipped.Add(1)
		s.hub.metrics.ObserveInference(s.skillID, true)
		return make([]float64, s.backend.OutputWidth()), nil
	}

	s.active.Add(1)
	s.hub.metrics.ObserveInference(s.skillID, false)
	out, err := s.backend.Infer(features)
	if err != nil {
		return nil, fmt.Errorf("infer %s: %w", s.skillID, err)
	}
	return out, nil
}

// ActiveCount returns how many runs reached the backend.
func (s *Session) ActiveCount() int64 { return s.active.Load() }

// SkippedCount returns how many runs were short-circuited by idle mode.
func (s *Session) SkippedCount() int64 { return s.skipped.Load() }
