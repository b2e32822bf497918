// Package app implements the engine's boot/run/teardown skeleton (§4.N):
// init installs the process-wide providers and loads the game, postInit
// runs boot commands and builds the starting state, run pumps events into
// a state stack using wall-clock frame time capped by MaxTick, cleanUp tears everything
// down in reverse. Grounded on main.go's flag-driven setup and the
// measure-each-phase tick loop shape (game/lifecycle.go, main.go's
// Update/UpdateHeadless split), generalised from one fixed Game struct to
// a State stack so the core isn't tied to a single screen.
package app

import (
	"fmt"
	"time"

	"github.com/cyanskies/hades/console"
	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/data"
	"github.com/cyanskies/hades/input"
)

// RegisterFunc installs resource-type parsers against the data graph
// before any mod is loaded (§4.N "register_fn(data)").
type RegisterFunc func(g *data.Graph) error

// MainFunc builds the starting state for a fresh run, pushing it onto the
// app's stack itself (§4.N "app_main_fn(states, input, commands)").
type MainFunc func(a *App, in *input.System, commands *console.Commands) error

// App is the engine's boot/run/teardown skeleton: the process-wide
// providers it installs, the resource graph and command registry it
// drives boot commands through, and the state stack the run loop pumps.
type App struct {
	Log      *console.Log
	Props    *console.Properties
	Data     *data.Graph
	Commands *console.Commands
	Input    *input.System

	// TickTarget is the fixed simulation step (client_tick_time); MaxTick
	// is the hard per-frame cap (client_max_tick) — exceeding it triggers
	// one immediate catch-up tick and a logged warning instead of a
	// death-spiral of ever-larger steps.
	TickTarget curve.Time
	MaxTick    curve.Time

	// EventPump supplies this frame's platform events; Present is called
	// once per frame after the active state's Draw. Both are supplied by
	// the concrete backend (cmd/hadesdemo): the core has no window of its
	// own.
	EventPump func() []Event
	Present   func()

	stack   []State
	running bool
}

// New constructs an App wired to a resource graph, command registry and
// input system, ticking in steps of tickTarget with a hard cap of
// maxTick.
func New(g *data.Graph, commands *console.Commands, in *input.System, tickTarget, maxTick curve.Time) *App {
	return &App{
		Data:       g,
		Commands:   commands,
		Input:      in,
		TickTarget: tickTarget,
		MaxTick:    maxTick,
	}
}

// Init installs the process-wide console log and property providers,
// runs register against the resource graph so its parsers are in place,
// then loads the base game (§4.N step 1).
func (a *App) Init(register RegisterFunc) error {
	a.Log = console.NewLog()
	console.SetLog(a.Log)
	a.Props = console.NewProperties()
	console.SetProvider(a.Props)

	if register != nil {
		if err := register(a.Data); err != nil {
			return fmt.Errorf("app: register_fn: %w", err)
		}
	}
	return a.Data.LoadGame("game")
}

// PostInit runs every boot command through the command registry, then
// calls main to build the starting state (§4.N step 2). main is
// responsible for pushing that state via Push.
func (a *App) PostInit(boot []console.Command, main MainFunc) error {
	for _, cmd := range boot {
		a.Commands.RunCommand(cmd)
	}
	if main == nil {
		return nil
	}
	return main(a, a.Input, a.Commands)
}

// Push adds a new top-of-stack state, dropping focus on the previous top
// first (§4.N "pushing a state calls drop_focus on the previous top").
func (a *App) Push(s State) {
	if len(a.stack) > 0 {
		a.stack[len(a.stack)-1].DropFocus()
	}
	s.Init()
	a.stack = append(a.stack, s)
}

// Pop removes the top state and grabs focus + reinits the new top, if
// any (§4.N "popping calls grab_focus + reinit on the new top").
func (a *App) Pop() {
	if len(a.stack) == 0 {
		return
	}
	a.stack = a.stack[:len(a.stack)-1]
	if n := len(a.stack); n > 0 {
		a.stack[n-1].GrabFocus()
		a.stack[n-1].Reinit()
	}
}

// Top returns the current topmost state, or nil if the stack is empty.
func (a *App) Top() State {
	if len(a.stack) == 0 {
		return nil
	}
	return a.stack[len(a.stack)-1]
}

// Stop requests Run to return after the current frame.
func (a *App) Stop() { a.running = false }

// Run pumps events into the topmost state, generates this frame's input,
// and updates/draws the topmost state with the wall-clock time elapsed
// since the previous frame (§4.N step 3). A frame longer than MaxTick gets
// one extra Update of MaxTick first and a logged warning. Run does not
// pace frames to TickTarget. It returns once Stop is called, the stack is
// empty, or the topmost state reports !IsAlive(); it pops no states.
func (a *App) Run() {
	a.running = true
	var lastFrame time.Time

	for a.running {
		top := a.Top()
		if top == nil || !top.IsAlive() {
			return
		}

		var events []Event
		if a.EventPump != nil {
			events = a.EventPump()
			for _, e := range events {
				top.HandleEvent(e)
			}
		}

		var actions input.ActionSet
		if a.Input != nil {
			inputEvents := make([]input.Event, len(events))
			for i, e := range events {
				inputEvents[i] = e
			}
			actions = a.Input.GenerateState(inputEvents...)
		}

		now := time.Now()
		if lastFrame.IsZero() {
			lastFrame = now
		}
		elapsed := curve.Time(now.Sub(lastFrame))
		lastFrame = now

		if a.MaxTick > 0 && elapsed > a.MaxTick {
			console.Logf(console.VerbosityWarning, "app", "frame overshot max_tick (%v > %v), running one catch-up tick", elapsed, a.MaxTick)
			top.Update(a.MaxTick, actions)
			elapsed -= a.MaxTick
		}
		top.Update(elapsed, actions)
		top.Draw(elapsed)

		if a.Present != nil {
			a.Present()
		}

		if top.Paused() {
			continue
		}
	}
}

// CleanUp destructs every state top-down, drops the data manager, and
// uninstalls the process-wide log sink and property provider (§4.N step 4).
func (a *App) CleanUp() {
	for len(a.stack) > 0 {
		a.stack = a.stack[:len(a.stack)-1]
	}
	a.Data = nil
	console.SetLog(nil)
	console.SetProvider(nil)
}
