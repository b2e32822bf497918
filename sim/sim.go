// Package sim implements the fixed-dt simulation loop (§4.K): per-system
// job fan-out onto the thread pool, input injection at the head of each
// tick, and change export to a render instance. Grounded on
// game/simulation.go and game/parallel.go's chunked-dispatch shape
// (generalised from a flat worker split to per-system, per-entity jobs)
// and original_source/libs/core/include/hades/simulation.hpp /
// export_curves.hpp for the tick contract itself.
package sim

import (
	"fmt"
	"sync"

	"github.com/cyanskies/hades/console"
	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/input"
	"github.com/cyanskies/hades/object"
	"github.com/cyanskies/hades/pool"
	"github.com/cyanskies/hades/uid"
)

// PlayerInputScript is called once per tick, head-of-tick, with every
// player's freshly drained action set. Returning an error kills the tick
// and propagates to the Tick caller (§4.K "Input-script failure kills the
// tick"), unlike a system job's error, which is only logged.
type PlayerInputScript func(actions map[uid.ID]input.ActionSet, now curve.Time) error

// Simulation is the fixed-dt tick loop: the persistent/derived state it
// operates on, the pool it fans per-system jobs out to, the attached
// systems, and the player input staging area.
type Simulation struct {
	State *object.GameState
	Extra *object.ExtraState
	Pool  *pool.Pool
	DT    curve.Time

	PlayerInputScript PlayerInputScript

	mu      sync.Mutex
	now     curve.Time
	systems []*object.Attachment

	inputMu    sync.Mutex
	pending    map[uid.ID]input.ActionSet
	histories  map[uid.ID]*playerHistory
}

// New constructs a Simulation over state/extra, fanning system-job work
// out to p and ticking in steps of dt.
func New(state *object.GameState, extra *object.ExtraState, p *pool.Pool, dt curve.Time) *Simulation {
	return &Simulation{
		State:     state,
		Extra:     extra,
		Pool:      p,
		DT:        dt,
		pending:   make(map[uid.ID]input.ActionSet),
		histories: make(map[uid.ID]*playerHistory),
	}
}

// Now returns the simulation's current clock.
func (s *Simulation) Now() curve.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// AddSystem attaches a system to the loop; its Due entities are dispatched
// every tick from here on.
func (s *Simulation) AddSystem(a *object.Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systems = append(s.systems, a)
}

// AddInput stages a player's action set for the next tick's input script
// and records it into that player's history (§4.K "add_input").
func (s *Simulation) AddInput(player uid.ID, actions input.ActionSet, t curve.Time) {
	s.inputMu.Lock()
	defer s.inputMu.Unlock()
	s.pending[player] = actions
	h, ok := s.histories[player]
	if !ok {
		h = newPlayerHistory()
		s.histories[player] = h
	}
	h.record(t, actions)
}

// InputHistoryAt returns the action set in force for player at time t, or
// false if the player has no recorded history yet.
func (s *Simulation) InputHistoryAt(player uid.ID, t curve.Time) (input.ActionSet, bool) {
	s.inputMu.Lock()
	h, ok := s.histories[player]
	s.inputMu.Unlock()
	if !ok {
		return nil, false
	}
	return h.at(t)
}

// Tick drains staged input into the player-input script, fans out one job
// per due entity per attached system onto the pool, waits for them all,
// reconciles each system's connect/create/disconnect lists, and advances
// the clock by DT.
func (s *Simulation) Tick() error {
	s.inputMu.Lock()
	drained := s.pending
	s.pending = make(map[uid.ID]input.ActionSet, len(drained))
	s.inputMu.Unlock()

	if s.PlayerInputScript != nil {
		if err := s.PlayerInputScript(drained, s.Now()); err != nil {
			return fmt.Errorf("sim: input script: %w", err)
		}
	}

	s.mu.Lock()
	systems := append([]*object.Attachment(nil), s.systems...)
	now := s.now
	s.mu.Unlock()

	for _, sys := range systems {
		s.tickSystem(sys, now)
	}
	for _, sys := range systems {
		sys.ReconcileLifecycle()
	}

	s.mu.Lock()
	s.now += s.DT
	s.mu.Unlock()
	return nil
}

// tickSystem fans out one pool job per due entity and waits on all of
// them (the "wait on the parent" step of §4.K, translated to a flat set
// of futures since the pool has no literal parent-job concept). A job
// that errors or panics is logged with its entity and system id and does
// not stop the others (§7 "system_error").
func (s *Simulation) tickSystem(sys *object.Attachment, now curve.Time) {
	due := sys.Due(now)
	if len(due) == 0 {
		return
	}
	futures := make([]*pool.Future[error], len(due))
	for i, ref := range due {
		ref := ref
		futures[i] = pool.Async(s.Pool, func() error {
			if sys.Hooks.Tick == nil {
				return nil
			}
			return sys.Hooks.Tick(ref, now, s.DT)
		})
	}
	for i, f := range futures {
		err, panicErr := f.Get()
		if panicErr != nil {
			console.Logf(console.VerbosityError, "sim", "system %v entity %v panicked: %v", sys.ID, due[i].ID, panicErr)
			continue
		}
		if err != nil {
			console.Logf(console.VerbosityError, "sim", "system %v entity %v tick failed: %v", sys.ID, due[i].ID, err)
		}
	}
}

// GetChanges proxies to the underlying GameState, the render-facing half
// of §4.K's "Change export".
func (s *Simulation) GetChanges(since curve.Time) object.Export {
	return s.State.GetChanges(since)
}
