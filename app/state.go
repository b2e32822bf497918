package app

import (
	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/input"
)

// Event is an opaque window/platform event; the core has no concrete
// event type of its own (the event source lives outside it, per §1
// Non-goals), so Run accepts anything its caller's pump produces and
// hands it straight to the active state.
type Event any

// State is the app's consumed-not-owned per-screen lifecycle (§4.N
// "State interface"): a menu, a running level, a pause overlay. The app
// only ever touches a state through this interface.
type State interface {
	Init()
	HandleEvent(e Event)
	Update(dt curve.Time, actions input.ActionSet)
	Draw(dt curve.Time)
	Reinit()
	Pause()
	Resume()

	IsAlive() bool
	IsInit() bool
	Paused() bool

	// DropFocus/GrabFocus are called by the app's state stack when this
	// state stops/starts being the topmost one (push/pop), not on every
	// pause/resume.
	DropFocus()
	GrabFocus()
}
