package types

// Result carries either a produced value or the error that prevented it.
// It replaces exception-style control flow at boundaries that can fail
// for expected reasons; callers branch on OK instead of recovering.
type Result[T any] struct {
	value T
	err   error
}

// Success wraps a produced value.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure wraps the error that prevented production.
func Failure[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// OK reports whether the result holds a value.
func (r Result[T]) OK() bool { return r.err == nil }

// Value returns the produced value; the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure cause; nil on success.
func (r Result[T]) Err() error { return r.err }
