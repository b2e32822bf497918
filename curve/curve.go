// Package curve implements the three keyframe containers used to drive
// time-varying game state (§4.F): step, linear, and pulse curves over a
// closed set of value types, mirroring
// original_source/libs/basic/include/hades/curve_types.hpp's type_pack.
package curve

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/cyanskies/hades/uid"
)

// Time is a simulation timestamp: a duration since a curve owner's own
// epoch, not wall-clock time.
type Time = time.Duration

// Vec2 is the vector value type in the closed curve type set.
type Vec2 struct {
	X, Y float64
}

// Value enumerates the closed set of types a curve may hold, matching
// curve_types.hpp's type_pack (collapsed to the scalar/vector cases; the
// collection_* variants have no counterpart in this module).
type Value interface {
	~int64 | ~float64 | ~bool | ~string | Vec2 | uid.ID
}

// Lerpable is the subset of Value that a Linear curve can interpolate
// between. bool, string and uid.ID have no lerp and are restricted to
// Step and Pulse curves.
type Lerpable interface {
	~int64 | ~float64 | Vec2
}

var ErrNoKeyframes = errors.New("curve: no keyframes")

// Keyframe is a single (time, value) pair.
type Keyframe[T Value] struct {
	At    Time
	Value T
}

// keyframes is the shared strictly-ordered-by-time storage backing all
// three curve variants.
type keyframes[T Value] struct {
	def T
	kf  []Keyframe[T]
}

func newKeyframes[T Value](def T) keyframes[T] {
	return keyframes[T]{def: def}
}

func (k *keyframes[T]) empty() bool {
	return len(k.kf) == 0
}

// search returns the index of the first keyframe with At >= t (like
// sort.Search), so floor = search(t)-1 when the keyframe at that index
// doesn't equal t.
func (k *keyframes[T]) search(t Time) int {
	lo, hi := 0, len(k.kf)
	for lo < hi {
		mid := (lo + hi) / 2
		if k.kf[mid].At < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// insert places a keyframe, overwriting any existing keyframe at exactly
// t, and keeps kf strictly ordered by time.
func (k *keyframes[T]) insert(t Time, v T) {
	i := k.search(t)
	if i < len(k.kf) && k.kf[i].At == t {
		k.kf[i].Value = v
		return
	}
	k.kf = append(k.kf, Keyframe[T]{})
	copy(k.kf[i+1:], k.kf[i:])
	k.kf[i] = Keyframe[T]{At: t, Value: v}
}

// replaceKeyframes deletes every keyframe with At >= t, then inserts (t, v).
func (k *keyframes[T]) replaceKeyframes(t Time, v T) {
	i := k.search(t)
	k.kf = k.kf[:i]
	k.insert(t, v)
}

// floor returns the index of the greatest keyframe with At <= t.
func (k *keyframes[T]) floor(t Time) (int, bool) {
	i := k.search(t)
	if i < len(k.kf) && k.kf[i].At == t {
		return i, true
	}
	if i == 0 {
		return -1, false
	}
	return i - 1, true
}

func (k *keyframes[T]) all() []Keyframe[T] {
	out := make([]Keyframe[T], len(k.kf))
	copy(out, k.kf)
	return out
}

// DurationFromString parses engine duration literals ("500ms", "2s",
// "100us", "3ns"), which are all valid time.ParseDuration inputs.
func DurationFromString(s string) (Time, error) {
	return time.ParseDuration(s)
}

// NormaliseTime returns t's fractional position within period, in [0, 1).
// A non-positive period normalises to 0.
func NormaliseTime(t, period Time) float64 {
	if period <= 0 {
		return 0
	}
	m := t % period
	if m < 0 {
		m += period
	}
	return float64(m) / float64(period)
}

func lerpScalar[T ~int64 | ~float64](a, b T, f float64) T {
	return T(float64(a) + (float64(b)-float64(a))*f)
}

func lerpVec2(a, b Vec2, f float64) Vec2 {
	dst := []float64{a.X, a.Y}
	diff := []float64{b.X - a.X, b.Y - a.Y}
	floats.AddScaled(dst, f, diff)
	return Vec2{X: dst[0], Y: dst[1]}
}

func lerp[T Lerpable](a, b T, f float64) T {
	switch av := any(a).(type) {
	case Vec2:
		bv := any(b).(Vec2)
		return any(lerpVec2(av, bv, f)).(T)
	case int64:
		return any(lerpScalar(av, any(b).(int64), f)).(T)
	case float64:
		return any(lerpScalar(av, any(b).(float64), f)).(T)
	default:
		return a
	}
}
