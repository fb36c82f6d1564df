package services

// Degraded carries an upstream result that may have been replaced by a fallback.
// Reason is nil when Value came from the upstream as-is.
type Degraded[T any] struct {
	Value  T
	Reason error
}

// Ok wraps a value obtained without degradation
func Ok[T any](v T) Degraded[T] {
	return Degraded[T]{Value: v}
}

// Fallback wraps a substitute value together with why the real one was unavailable
func Fallback[T any](v T, reason error) Degraded[T] {
	return Degraded[T]{Value: v, Reason: reason}
}

func (d Degraded[T]) IsDegraded() bool {
	return d.Reason != nil
}
