// Package timer implements the timer wheel (§4.M): named callbacks fired
// at future time points, with pause/resume/restart and a repeating mode.
// Grounded on telemetry/bookmark.go's scheduled-event-at-tick pattern and
// original_source/libs/basic/include/hades/timers.hpp's field layout.
package timer

import (
	"sync"
	"time"

	"github.com/cyanskies/hades/uid"
)

// Callback is a timer's fired function. A repeating timer re-arms when
// Callback returns true; any timer (repeating or not) is dropped when it
// returns false.
type Callback func() bool

type entry struct {
	id         uid.ID
	fn         Callback
	duration   time.Duration
	target     time.Duration
	repeating  bool
	paused     bool
	pausedAt   time.Duration
}

// Wheel advances a simulation clock and fires callbacks whose target time
// has elapsed. Active timers, pending additions and pending removals each
// have their own lock so Create/Drop can be called from another goroutine
// while Update is running; Update merges the pending queues into the
// active set at its start, before advancing the clock (§4.M).
type Wheel struct {
	now time.Duration

	mu     sync.Mutex
	active map[uid.ID]*entry

	addMu sync.Mutex
	toAdd []*entry

	removeMu sync.Mutex
	toRemove map[uid.ID]bool
}

// New constructs an empty timer wheel with its clock at zero.
func New() *Wheel {
	return &Wheel{
		active:   make(map[uid.ID]*entry),
		toRemove: make(map[uid.ID]bool),
	}
}

// CreateTimer schedules fn to fire after duration, repeating if requested.
// The timer is staged and only becomes visible to Pause/Resume/Restart
// after the next Update.
func (w *Wheel) CreateTimer(duration time.Duration, repeating bool, fn Callback) uid.ID {
	id := uid.Make()
	e := &entry{
		id:        id,
		fn:        fn,
		duration:  duration,
		repeating: repeating,
	}
	w.addMu.Lock()
	w.toAdd = append(w.toAdd, e)
	w.addMu.Unlock()
	return id
}

// Now returns the wheel's current clock position.
func (w *Wheel) Now() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now
}

// Update merges pending additions and removals, advances the clock by dt,
// and fires every active, unpaused timer whose target has elapsed.
func (w *Wheel) Update(dt time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.addMu.Lock()
	for _, e := range w.toAdd {
		e.target = w.now + e.duration
		w.active[e.id] = e
	}
	w.toAdd = nil
	w.addMu.Unlock()

	w.removeMu.Lock()
	for id := range w.toRemove {
		delete(w.active, id)
	}
	w.toRemove = make(map[uid.ID]bool)
	w.removeMu.Unlock()

	w.now += dt

	var fired []*entry
	for _, e := range w.active {
		if !e.paused && e.target <= w.now {
			fired = append(fired, e)
		}
	}
	for _, e := range fired {
		if !e.fn() {
			delete(w.active, e.id)
			continue
		}
		if e.repeating {
			e.target = w.now + e.duration
		} else {
			delete(w.active, e.id)
		}
	}
}

// Pause stops a timer from firing until Resume or Restart. A second Pause
// on an already-paused timer is a no-op; it does not reset the point the
// pause began (Open Question resolved, see DESIGN.md).
func (w *Wheel) Pause(id uid.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.active[id]
	if !ok || e.paused {
		return
	}
	e.paused = true
	e.pausedAt = w.now
}

// Resume un-pauses a timer, shifting its target forward by however long it
// was paused so the remaining duration is preserved.
func (w *Wheel) Resume(id uid.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.active[id]
	if !ok || !e.paused {
		return
	}
	e.paused = false
	e.target += w.now - e.pausedAt
}

// Restart re-arms a timer for its full duration from now, clearing any
// pause.
func (w *Wheel) Restart(id uid.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.active[id]
	if !ok {
		return
	}
	e.paused = false
	e.target = w.now + e.duration
}

// DropTimer removes a timer. Safe to call while Update is running on
// another goroutine; the removal is staged and applied at the start of the
// next Update.
func (w *Wheel) DropTimer(id uid.ID) {
	w.removeMu.Lock()
	w.toRemove[id] = true
	w.removeMu.Unlock()
}

// DropAll removes every active and pending timer immediately.
func (w *Wheel) DropAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = make(map[uid.ID]*entry)
	w.addMu.Lock()
	w.toAdd = nil
	w.addMu.Unlock()
	w.removeMu.Lock()
	w.toRemove = make(map[uid.ID]bool)
	w.removeMu.Unlock()
}

// Count returns the number of active timers (pending adds/removes not yet
// merged are not counted).
func (w *Wheel) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.active)
}
