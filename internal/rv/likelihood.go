package rv

// Likelihood is the capability of contributing the log-likelihood of a
// sequence of observations.
type Likelihood[V any] interface {
	Fit(observations []V) *RandomVariable[Unit]
}

// ConditionOn conditions p on observations, using capability to view the
// payload as a Likelihood. The payload is unchanged.
func ConditionOn[T, V any](p *RandomVariable[T], observations []V, capability func(T) Likelihood[V]) *RandomVariable[T] {
	return FlatMap(p, func(t T) *RandomVariable[T] {
		return Map(capability(t).Fit(observations), func(Unit) T { return t })
	})
}

// Observe conditions p on observations when the payload is itself a Likelihood.
func Observe[L Likelihood[V], V any](p *RandomVariable[L], observations []V) *RandomVariable[L] {
	return ConditionOn(p, observations, func(l L) Likelihood[V] { return l })
}
