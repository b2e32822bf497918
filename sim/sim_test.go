package sim

import (
	"errors"
	"testing"

	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/input"
	"github.com/cyanskies/hades/object"
	"github.com/cyanskies/hades/pool"
	"github.com/cyanskies/hades/uid"
)

func newTestSim(t *testing.T) (*Simulation, *object.GameState, *object.ExtraState) {
	t.Helper()
	gs := object.NewGameState()
	es := object.NewExtraState()
	p := pool.New(2)
	t.Cleanup(p.Shutdown)
	s := New(gs, es, p, curve.Time(1))
	return s, gs, es
}

func TestTickAdvancesClock(t *testing.T) {
	s, _, _ := newTestSim(t)
	if s.Now() != 0 {
		t.Fatalf("Now() = %v, want 0", s.Now())
	}
	if err := s.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if s.Now() != 1 {
		t.Fatalf("Now() = %v, want 1 after one tick", s.Now())
	}
}

func TestTickDispatchesDueEntities(t *testing.T) {
	s, _, es := newTestSim(t)
	ref := es.Objects.Spawn(object.NewObject(1))

	ticked := make(chan object.Ref, 1)
	a := object.NewAttachment(uid.Make(), object.Hooks{
		Tick: func(r object.Ref, now, dt curve.Time) error {
			ticked <- r
			return nil
		},
	})
	a.Connect(ref, 0)
	a.ReconcileLifecycle()
	s.AddSystem(a)

	if err := s.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	select {
	case got := <-ticked:
		if got.ID != ref.ID {
			t.Fatalf("ticked entity %v, want %v", got.ID, ref.ID)
		}
	default:
		t.Fatal("system was never ticked for its due entity")
	}
}

func TestTickSystemFailureDoesNotAbortOthers(t *testing.T) {
	s, _, es := newTestSim(t)
	bad := es.Objects.Spawn(object.NewObject(1))
	good := es.Objects.Spawn(object.NewObject(2))
	goodTicked := make(chan struct{}, 1)

	failing := object.NewAttachment(uid.Make(), object.Hooks{
		Tick: func(object.Ref, curve.Time, curve.Time) error {
			return errors.New("boom")
		},
	})
	failing.Connect(bad, 0)
	failing.ReconcileLifecycle()

	panicking := object.NewAttachment(uid.Make(), object.Hooks{
		Tick: func(object.Ref, curve.Time, curve.Time) error {
			panic("kaboom")
		},
	})
	panicking.Connect(bad, 0)
	panicking.ReconcileLifecycle()

	ok := object.NewAttachment(uid.Make(), object.Hooks{
		Tick: func(object.Ref, curve.Time, curve.Time) error {
			goodTicked <- struct{}{}
			return nil
		},
	})
	ok.Connect(good, 0)
	ok.ReconcileLifecycle()

	s.AddSystem(failing)
	s.AddSystem(panicking)
	s.AddSystem(ok)

	if err := s.Tick(); err != nil {
		t.Fatalf("Tick returned error from a system job failure: %v", err)
	}

	select {
	case <-goodTicked:
	default:
		t.Fatal("a failing/panicking system in another attachment blocked an unrelated system")
	}
}

func TestInputScriptFailureKillsTick(t *testing.T) {
	s, _, _ := newTestSim(t)
	s.PlayerInputScript = func(map[uid.ID]input.ActionSet, curve.Time) error {
		return errors.New("bad script")
	}
	if err := s.Tick(); err == nil {
		t.Fatal("want error from a failing input script")
	}
	if s.Now() != 0 {
		t.Fatalf("clock advanced despite input script failure: %v", s.Now())
	}
}

func TestAddInputDrainedIntoScript(t *testing.T) {
	s, _, _ := newTestSim(t)
	player := uid.Make()
	want := input.ActionSet{uid.Make(): {Active: true}}
	s.AddInput(player, want, 0)

	var got map[uid.ID]input.ActionSet
	s.PlayerInputScript = func(actions map[uid.ID]input.ActionSet, now curve.Time) error {
		got = actions
		return nil
	}
	if err := s.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(got) != 1 || got[player] == nil {
		t.Fatalf("input script did not receive staged input: %v", got)
	}
}

func TestAddInputDrainedOnlyOnce(t *testing.T) {
	s, _, _ := newTestSim(t)
	player := uid.Make()
	s.AddInput(player, input.ActionSet{}, 0)

	calls := 0
	s.PlayerInputScript = func(actions map[uid.ID]input.ActionSet, now curve.Time) error {
		calls++
		if calls == 2 && len(actions) != 0 {
			t.Fatalf("second tick re-delivered stale input: %v", actions)
		}
		return nil
	}
	if err := s.Tick(); err != nil {
		t.Fatal(err)
	}
	if err := s.Tick(); err != nil {
		t.Fatal(err)
	}
}

func TestInputHistoryAt(t *testing.T) {
	s, _, _ := newTestSim(t)
	player := uid.Make()
	early := input.ActionSet{uid.Make(): {Active: false}}
	late := input.ActionSet{uid.Make(): {Active: true}}
	s.AddInput(player, early, 0)
	s.AddInput(player, late, 10)

	got, ok := s.InputHistoryAt(player, 5)
	if !ok {
		t.Fatal("want history at t=5")
	}
	if len(got) != len(early) {
		t.Fatalf("InputHistoryAt(5) = %v, want the t=0 snapshot", got)
	}

	got, ok = s.InputHistoryAt(player, 10)
	if !ok || len(got) != len(late) {
		t.Fatalf("InputHistoryAt(10) = %v, want the t=10 snapshot", got)
	}

	if _, ok := s.InputHistoryAt(uid.Make(), 0); ok {
		t.Fatal("want no history for an unknown player")
	}
}

func TestGetChangesProxiesState(t *testing.T) {
	s, gs, es := newTestSim(t)
	ref := object.MakeObject(gs, es)
	obj, _ := object.GetObject(es, ref)
	c := object.ObjectInt(gs, obj, uid.Make(), object.KindStep, 0, true)
	c.Set(0, 7)

	export := s.GetChanges(0)
	if len(export.Ints) != 1 {
		t.Fatalf("GetChanges did not proxy to GameState.GetChanges: %+v", export)
	}
}
