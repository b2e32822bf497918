package curve

// Pulse is a curve of discrete events: Get returns the most recent event
// at or before a time, and EventsIn answers "which events fired in this
// window", the shape used to test whether a one-shot effect should fire
// on a given tick.
type Pulse[T Value] struct {
	kf keyframes[T]
}

// NewPulse creates an empty pulse curve with the given default value.
func NewPulse[T Value](def T) *Pulse[T] {
	return &Pulse[T]{kf: newKeyframes(def)}
}

// Get returns the last event at or before t, and whether any such event
// exists (false means the curve's default value is in force).
func (p *Pulse[T]) Get(t Time) (Time, T, bool) {
	i, ok := p.kf.floor(t)
	if !ok {
		return 0, p.kf.def, false
	}
	kf := p.kf.kf[i]
	return kf.At, kf.Value, true
}

// EventsIn returns every event with At in (a, b], in time order.
func (p *Pulse[T]) EventsIn(a, b Time) []Keyframe[T] {
	lo := p.kf.search(a + 1) // first index with At > a
	hi := p.kf.search(b + 1) // first index with At > b
	out := make([]Keyframe[T], hi-lo)
	copy(out, p.kf.kf[lo:hi])
	return out
}

// Set records an event at t, overwriting any event already at t.
func (p *Pulse[T]) Set(t Time, v T) {
	p.kf.insert(t, v)
}

// ReplaceKeyframes deletes every event with At >= t, then records (t, v).
func (p *Pulse[T]) ReplaceKeyframes(t Time, v T) {
	p.kf.replaceKeyframes(t, v)
}

// Empty reports whether the curve has no events.
func (p *Pulse[T]) Empty() bool {
	return p.kf.empty()
}

// Keyframes returns a copy of the curve's events in time order.
func (p *Pulse[T]) Keyframes() []Keyframe[T] {
	return p.kf.all()
}
