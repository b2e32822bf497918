package sim

import (
	"sync"

	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/input"
)

// playerHistory is a step curve of a player's per-tick action set (§4.K
// "History is kept per player as a step curve of action vectors"). It
// mirrors curve.Step's semantics (latest keyframe at or before t) by hand
// rather than instantiating curve.Step[input.ActionSet]: ActionSet is a
// map, outside curve.Value's closed scalar/vector type set.
type playerHistory struct {
	mu      sync.Mutex
	times   []curve.Time
	actions []input.ActionSet
}

func newPlayerHistory() *playerHistory {
	return &playerHistory{}
}

// record appends actions at time t, keeping entries ordered by time (the
// simulation only ever appends at or after its current clock, so this is
// normally an append; out-of-order writes still insert in the right
// place rather than corrupting the ordering invariant curves rely on).
func (h *playerHistory) record(t curve.Time, a input.ActionSet) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := len(h.times)
	for i > 0 && h.times[i-1] > t {
		i--
	}
	if i < len(h.times) && h.times[i] == t {
		h.actions[i] = a
		return
	}
	h.times = append(h.times, curve.Time(0))
	h.actions = append(h.actions, nil)
	copy(h.times[i+1:], h.times[i:])
	copy(h.actions[i+1:], h.actions[i:])
	h.times[i] = t
	h.actions[i] = a
}

// at returns the action set in force at time t (the latest recorded
// actions with a time <= t), or false if the player has no history yet.
func (h *playerHistory) at(t curve.Time) (input.ActionSet, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	lo, hi := 0, len(h.times)
	for lo < hi {
		mid := (lo + hi) / 2
		if h.times[mid] <= t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return nil, false
	}
	return h.actions[lo-1], true
}
