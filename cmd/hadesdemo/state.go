package main

import (
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/cyanskies/hades/app"
	"github.com/cyanskies/hades/console"
	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/input"
	"github.com/cyanskies/hades/mission"
	"github.com/cyanskies/hades/object"
	"github.com/cyanskies/hades/render"
	"github.com/cyanskies/hades/sim"
	"github.com/cyanskies/hades/telemetry"
	"github.com/cyanskies/hades/terrain"
	"github.com/cyanskies/hades/timer"
	"github.com/cyanskies/hades/uid"
)

const demoMoveSpeed = 160.0 // pixels per second, at full stick deflection

// demoState is the one screen this binary ever pushes: a running level.
// It implements app.State (the run loop drives it); its frameCollector
// adapter implements render.RenderInterface (MakeFrameAt hands it one
// EntityFrame per live entity to draw).
type demoState struct {
	app  *app.App
	sim  *sim.Simulation
	reg  *uid.Registry
	wheel *timer.Wheel
	out  *telemetry.Output
	perf *telemetry.PerfCollector

	mirror     *render.Mirror
	level      *terrain.Level
	terrainSet *terrain.TerrainSet

	state *object.GameState
	extra *object.ExtraState

	playerID   uid.ID // mission player name, keys sim.AddInput
	moveAction uid.ID
	posVar     uid.ID
	playerRef  object.Ref
	orbiterRef object.Ref
	orbiter    *object.Attachment

	headless bool

	simAccum    curve.Time
	lastExport  curve.Time
	ticksRun    int
	tickBudget  int // 0 = unbounded
	windowLag   curve.Time // how far behind now the drawn frame lags, smooths jitter

	frames []render.EntityFrame // scratch, refilled each Draw by MakeFrameAt

	alive, init, paused, focused bool
}

func newDemoState(a *app.App, s *sim.Simulation, reg *uid.Registry, level *terrain.Level, ts *terrain.TerrainSet, m *mission.Mission, wheel *timer.Wheel, out *telemetry.Output) *demoState {
	state := s.State
	extra := s.Extra

	d := &demoState{
		app:        a,
		sim:        s,
		reg:        reg,
		wheel:      wheel,
		out:        out,
		perf:       telemetry.NewPerfCollector(120),
		mirror:     render.NewMirror(),
		level:      level,
		terrainSet: ts,
		state:      state,
		extra:      extra,
		playerID:   reg.MakeNamed("player_one"),
		moveAction: reg.MakeNamed("move"),
		posVar:     reg.MakeNamed("position"),
		windowLag:  50 * time.Millisecond,
	}

	centerX, centerY := float64(level.MapX)/2, float64(level.MapY)/2

	d.playerRef = object.MakeObject(state, extra)
	if obj, ok := object.GetObject(extra, d.playerRef); ok {
		object.ObjectVec2(state, obj, d.posVar, object.KindLinear, curve.Vec2{X: centerX, Y: centerY}, true)
	}
	if len(m.Players) > 0 {
		d.playerID = reg.MakeNamed(m.Players[0].Name)
		if err := state.NameObject(reg.AsString(m.Players[0].Object), d.playerRef.ID, 0); err != nil {
			console.Logf(console.VerbosityWarning, "hadesdemo", "naming starting player object: %v", err)
		}
	}

	d.orbiterRef = object.MakeObject(state, extra)
	if obj, ok := object.GetObject(extra, d.orbiterRef); ok {
		object.ObjectVec2(state, obj, d.posVar, object.KindLinear, curve.Vec2{X: centerX + 80, Y: centerY}, true)
	}

	d.orbiter = object.NewAttachment(reg.MakeNamed("system.orbiter"), object.Hooks{
		Tick: func(ref object.Ref, now, dt curve.Time) error {
			obj, ok := object.GetObject(extra, ref)
			if !ok {
				return nil
			}
			pos := object.ObjectVec2(state, obj, d.posVar, object.KindLinear, curve.Vec2{}, true)
			angle := now.Seconds()
			pos.Set(now+dt, curve.Vec2{
				X: centerX + 80*math.Cos(angle),
				Y: centerY + 80*math.Sin(angle),
			})
			return nil
		},
	})
	s.AddSystem(d.orbiter)
	d.orbiter.Connect(d.orbiterRef, 0)

	s.PlayerInputScript = d.runPlayerInput
	return d
}

// runPlayerInput is the sim.PlayerInputScript: head-of-tick, it reads the
// drained move action (if any) and writes the player's next position
// keyframe directly, rather than routing through a ticked system.
func (d *demoState) runPlayerInput(actions map[uid.ID]input.ActionSet, now curve.Time) error {
	set, ok := actions[d.playerID]
	if !ok {
		return nil
	}
	act, ok := set[d.moveAction]
	if !ok {
		return nil
	}
	obj, ok := object.GetObject(d.extra, d.playerRef)
	if !ok {
		return nil
	}
	pos := object.ObjectVec2(d.state, obj, d.posVar, object.KindLinear, curve.Vec2{}, true)
	cur := pos.Get(now)
	dt := d.sim.DT.Seconds()
	dx := (float64(act.XAxis) - 50) / 50 * demoMoveSpeed * dt
	dy := (float64(act.YAxis) - 50) / 50 * demoMoveSpeed * dt
	pos.Set(now+d.sim.DT, curve.Vec2{X: cur.X + dx, Y: cur.Y + dy})
	return nil
}

// bindInput wires a keyboard interpreter to the move action. In headless
// mode raylib's window (and therefore its key-state queries) never
// exists, so the interpreter just reports neutral.
func (d *demoState) bindInput(in *input.System) {
	if err := in.Create(d.moveAction, true, false); err != nil {
		console.Logf(console.VerbosityWarning, "hadesdemo", "creating move action: %v", err)
	}
	name := "keyboard_move"
	in.AddInterpreter(name, func() input.Action {
		if d.headless {
			return input.Action{XAxis: 50, YAxis: 50}
		}
		x, y := int32(50), int32(50)
		if rl.IsKeyDown(rl.KeyA) {
			x = 0
		} else if rl.IsKeyDown(rl.KeyD) {
			x = 100
		}
		if rl.IsKeyDown(rl.KeyW) {
			y = 0
		} else if rl.IsKeyDown(rl.KeyS) {
			y = 100
		}
		active := x != 50 || y != 50
		return input.Action{Active: active, XAxis: x, YAxis: y}
	})
	if err := in.Bind(d.moveAction, name); err != nil {
		console.Logf(console.VerbosityWarning, "hadesdemo", "binding move action: %v", err)
	}
}

func (d *demoState) Init() {
	d.alive, d.init, d.focused = true, true, true
	d.wheel.CreateTimer(5*time.Second, true, func() bool {
		console.Logf(console.VerbosityNormal, "hadesdemo", "tick=%v entities=%d pool_queue=%d",
			d.sim.Now(), d.mirror.EntityCount(), d.sim.Pool.QueueDepth())
		return true
	})
}

func (d *demoState) Reinit()         { d.init = true }
func (d *demoState) Pause()          { d.paused = true }
func (d *demoState) Resume()         { d.paused = false }
func (d *demoState) DropFocus()      { d.focused = false }
func (d *demoState) GrabFocus()      { d.focused = true }
func (d *demoState) IsAlive() bool   { return d.alive }
func (d *demoState) IsInit() bool    { return d.init }
func (d *demoState) Paused() bool    { return d.paused }

func (d *demoState) HandleEvent(e app.Event) {
	if s, ok := e.(string); ok && s == "quit" {
		d.alive = false
	}
}

// Update injects this frame's actions, drains the fixed-dt queue one tick
// at a time, and rolls perf samples once enough have accumulated.
func (d *demoState) Update(dt curve.Time, actions input.ActionSet) {
	d.wheel.Update(dt)
	if d.paused {
		return
	}
	d.simAccum += dt

	for d.simAccum >= d.sim.DT {
		if d.tickBudget > 0 && d.ticksRun >= d.tickBudget {
			d.alive = false
			break
		}
		d.sim.AddInput(d.playerID, actions, d.sim.Now())

		d.perf.StartTick()
		d.perf.StartPhase(telemetry.PhaseInput)
		d.perf.StartPhase(telemetry.PhaseSystems)
		if err := d.sim.Tick(); err != nil {
			console.Logf(console.VerbosityError, "hadesdemo", "tick failed: %v", err)
		}
		d.perf.StartPhase(telemetry.PhaseExport)
		exp := d.sim.GetChanges(d.lastExport)
		d.mirror.InputUpdates(exp)
		d.lastExport = d.sim.Now()
		d.perf.EndTick()

		d.simAccum -= d.sim.DT
		d.ticksRun++

		if d.out != nil && d.ticksRun%60 == 0 {
			stats := d.perf.Stats(d.sim.Now(), d.mirror.EntityCount(), d.sim.Pool.QueueDepth(), keyframeCount(exp))
			if err := d.out.WriteStats(stats); err != nil {
				console.Logf(console.VerbosityError, "hadesdemo", "writing telemetry: %v", err)
			}
		}
	}
}

func keyframeCount(exp object.Export) int {
	n := 0
	for _, f := range exp.Ints {
		n += len(f.Keyframes)
	}
	for _, f := range exp.Floats {
		n += len(f.Keyframes)
	}
	for _, f := range exp.Bools {
		n += len(f.Keyframes)
	}
	for _, f := range exp.Strings {
		n += len(f.Keyframes)
	}
	for _, f := range exp.Vecs {
		n += len(f.Keyframes)
	}
	return n
}

// Draw rebuilds the mirror's frame slightly behind the simulation clock
// (windowLag) so interpolation always has two real keyframes to work
// between, then hands everything to drawScene.
func (d *demoState) Draw(dt curve.Time) {
	d.frames = d.frames[:0]
	at := d.sim.Now() - d.windowLag
	if at < 0 {
		at = 0
	}
	d.mirror.MakeFrameAt(at, nil, frameCollector{d})

	if d.headless {
		return
	}
	rl.BeginDrawing()
	drawScene(d)
}

// frameCollector adapts demoState to render.RenderInterface without
// colliding with app.State's own Draw(dt) method.
type frameCollector struct{ d *demoState }

func (f frameCollector) Draw(frame render.EntityFrame) {
	f.d.frames = append(f.d.frames, frame)
}
