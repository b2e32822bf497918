package object

import (
	"sync"

	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/uid"
)

// Hooks is the per-system callback set the simulation loop drives (§4.J
// "System function: on_create, on_connect(entity), on_disconnect(entity),
// tick(entity), on_destroy"). Any of these may be nil; the loop simply
// skips a nil hook.
type Hooks struct {
	OnCreate     func()
	OnConnect    func(ref Ref)
	OnDisconnect func(ref Ref)
	Tick         func(ref Ref, now, dt curve.Time) error
	OnDestroy    func()
}

// activation pairs an entity ref with the time it should next be ticked,
// matching §4.J's "(object_ref, next_activation_time)" pair.
type activation struct {
	Ref            Ref
	NextActivation curve.Time
}

// Attachment is one system's bookkeeping: its hooks plus the four entity
// lists the tick loop reconciles each frame (§4.J "System attachment").
// _system_list_mut in the source is this type's mu: attached/new/created/
// removed are only mutated between ticks (§5).
type Attachment struct {
	ID    uid.ID
	Hooks Hooks

	mu       sync.Mutex
	attached []activation
	newEnts  []activation
	created  []activation
	removed  []activation
}

// NewAttachment creates an empty attachment for a system resource id.
func NewAttachment(id uid.ID, hooks Hooks) *Attachment {
	return &Attachment{ID: id, Hooks: hooks}
}

// Connect stages ref to join this system's attached set, activating
// immediately. The staged entry moves into Attached at the next
// ReconcileLifecycle call (run between ticks).
func (a *Attachment) Connect(ref Ref, now curve.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.newEnts = append(a.newEnts, activation{Ref: ref, NextActivation: now})
}

// Create stages ref as newly created for this system (distinct from
// Connect: on_create fires once per entity's lifetime, on_connect every
// time it (re)joins this system's attached set).
func (a *Attachment) Create(ref Ref, now curve.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.created = append(a.created, activation{Ref: ref, NextActivation: now})
}

// Disconnect stages ref to leave the attached set.
func (a *Attachment) Disconnect(ref Ref) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removed = append(a.removed, activation{Ref: ref})
}

// Due returns the currently-attached entities whose NextActivation has
// elapsed as of now, for the tick loop to dispatch jobs for.
func (a *Attachment) Due(now curve.Time) []Ref {
	a.mu.Lock()
	defer a.mu.Unlock()
	var due []Ref
	for _, e := range a.attached {
		if e.NextActivation <= now {
			due = append(due, e.Ref)
		}
	}
	return due
}

// Reschedule sets ref's next activation time, called after a tick job
// completes (a system can space out its own per-entity cadence this way).
func (a *Attachment) Reschedule(id EntityID, next curve.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.attached {
		if a.attached[i].Ref.ID == id {
			a.attached[i].NextActivation = next
			return
		}
	}
}

// ReconcileLifecycle runs on_connect for newEnts, on_create for created,
// on_disconnect for removed, then merges newEnts into attached and clears
// all three staging lists. Per §4.K this only ever runs between ticks.
func (a *Attachment) ReconcileLifecycle() {
	a.mu.Lock()
	newEnts := a.newEnts
	created := a.created
	removed := a.removed
	a.newEnts = nil
	a.created = nil
	a.removed = nil
	a.mu.Unlock()

	for range created {
		if a.Hooks.OnCreate != nil {
			a.Hooks.OnCreate()
		}
	}
	for _, e := range newEnts {
		if a.Hooks.OnConnect != nil {
			a.Hooks.OnConnect(e.Ref)
		}
	}
	for _, e := range removed {
		if a.Hooks.OnDisconnect != nil {
			a.Hooks.OnDisconnect(e.Ref)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.attached = append(a.attached, newEnts...)
	if len(removed) > 0 {
		stillAttached := a.attached[:0]
		for _, e := range a.attached {
			keep := true
			for _, r := range removed {
				if r.Ref.ID == e.Ref.ID {
					keep = false
					break
				}
			}
			if keep {
				stillAttached = append(stillAttached, e)
			}
		}
		a.attached = stillAttached
	}
}

// AttachedCount reports how many entities are currently attached, for
// tests and diagnostics.
func (a *Attachment) AttachedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.attached)
}
