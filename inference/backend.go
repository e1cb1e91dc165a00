package inference

// Backend is one loaded inference engine instance for one skill.
// Implementations wrap the vendor runtime; Infer may block for the
// duration of a forward pass.
type Backend interface {
	// Infer runs a forward pass over the feature vector.
	Infer(features []float64) ([]float64, error)

	// OutputWidth is the backend's output shape, used to size the
	// zero vector returned while the hub is idle.
	OutputWidth() int
}

// BackendFactory creates the backend for a skill on first session
// access. Factories run at most once per skill id for the hub's
// lifetime.
type BackendFactory func(skillID string) (Backend, error)

// EchoBackend returns its input unchanged. Used for tests and dry
// deployments without the vendor engine.
type EchoBackend struct {
	Width int
}

func (b EchoBackend) Infer(features []float64) ([]float64, error) {
	out := make([]float64, len(features))
	copy(out, features)
	return out, nil
}

func (b EchoBackend) OutputWidth() int {
	if b.Width > 0 {
		return b.Width
	}
	return 1
}
