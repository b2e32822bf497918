package input

import (
	"testing"

	"github.com/cyanskies/hades/uid"
)

func TestMergeOrsActiveAndTakesMaxAxis(t *testing.T) {
	a := Action{Active: true, XAxis: 0, YAxis: 100}
	b := Action{Active: false, XAxis: 100, YAxis: 0}

	m := Merge(a, b, true)
	if !m.Active {
		t.Fatal("expected Active to be OR'd true")
	}
	if m.XAxis != 100 || m.YAxis != 100 {
		t.Fatalf("expected max per axis, got x=%d y=%d", m.XAxis, m.YAxis)
	}
}

func TestMergeClampsStickAxesNotPositional(t *testing.T) {
	a := Action{XAxis: 150}
	b := Action{XAxis: 0}

	clamped := Merge(a, b, true)
	if clamped.XAxis != 100 {
		t.Fatalf("expected clamp to 100, got %d", clamped.XAxis)
	}

	unclamped := Merge(a, b, false)
	if unclamped.XAxis != 150 {
		t.Fatalf("expected raw 150 for positional input, got %d", unclamped.XAxis)
	}
}

// Invariant 6: generate_state run twice with no time-derived interpreter
// leaves the state unchanged on the second call.
func TestGenerateStateIdempotent(t *testing.T) {
	reg := uid.NewRegistry()
	s := NewSystem(reg)

	moveID := reg.MakeNamed("move")
	if err := s.Create(moveID, true, false); err != nil {
		t.Fatal(err)
	}
	s.AddInterpreter("held_right", func() Action {
		return Action{Active: true, XAxis: 100}
	})
	if err := s.Bind(moveID, "held_right"); err != nil {
		t.Fatal(err)
	}

	first := s.GenerateState()
	second := s.GenerateState()

	if len(first) != len(second) {
		t.Fatalf("state size changed: %d vs %d", len(first), len(second))
	}
	if first[moveID] != second[moveID] {
		t.Fatalf("state changed between identical calls: %+v vs %+v", first[moveID], second[moveID])
	}
}

func TestBindRejectsNonRebindableOnceBound(t *testing.T) {
	reg := uid.NewRegistry()
	s := NewSystem(reg)
	fixedID := reg.MakeNamed("fixed")
	s.Create(fixedID, false, false)
	s.AddInterpreter("a", func() Action { return Action{} })
	s.AddInterpreter("b", func() Action { return Action{} })

	if err := s.Bind(fixedID, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Bind(fixedID, "b"); err != ErrActionNotRebindable {
		t.Fatalf("got %v, want ErrActionNotRebindable", err)
	}
}

func TestUnbindRemovesOneInterpreter(t *testing.T) {
	reg := uid.NewRegistry()
	s := NewSystem(reg)
	id := reg.MakeNamed("a")
	s.Create(id, true, false)
	s.AddInterpreter("x", func() Action { return Action{Active: true} })
	s.AddInterpreter("y", func() Action { return Action{Active: false} })
	s.Bind(id, "x")
	s.Bind(id, "y")

	s.Unbind(id, "x")
	state := s.GenerateState()
	if state[id].Active {
		t.Fatal("expected remaining interpreter y (inactive) to win after unbinding x")
	}
}

func TestGenerateStateClampsSingleInterpreter(t *testing.T) {
	reg := uid.NewRegistry()
	s := NewSystem(reg)
	id := reg.MakeNamed("move")
	s.Create(id, true, false)
	s.AddInterpreter("stick", func() Action { return Action{XAxis: 150} })
	s.Bind(id, "stick")

	state := s.GenerateState()
	if state[id].XAxis != 100 {
		t.Fatalf("expected single interpreter's axis clamped to 100, got %d", state[id].XAxis)
	}
}

func TestGenerateStateWithEventInterpreter(t *testing.T) {
	reg := uid.NewRegistry()
	s := NewSystem(reg)
	id := reg.MakeNamed("fire")
	s.Create(id, true, false)

	s.AddEventInterpreter("click", EventInterpreter{
		IsMatch: func(e Event) bool {
			_, ok := e.(string)
			return ok
		},
		EventCheck: func(handled bool, e Event) Action {
			return Action{Active: true}
		},
	})
	if err := s.Bind(id, "click"); err != nil {
		t.Fatal(err)
	}

	state := s.GenerateState("mouse_down")
	if !state[id].Active {
		t.Fatal("expected matched event to activate the bound action")
	}

	state = s.GenerateState()
	if state[id].Active {
		t.Fatal("expected action to be inactive on a call with no matching events")
	}
}

func TestInputStateReturnsLastGeneratedSet(t *testing.T) {
	reg := uid.NewRegistry()
	s := NewSystem(reg)
	id := reg.MakeNamed("a")
	s.Create(id, true, false)
	s.AddInterpreter("x", func() Action { return Action{Active: true} })
	s.Bind(id, "x")

	s.GenerateState()
	if state := s.InputState(); !state[id].Active {
		t.Fatal("expected InputState to reflect the last GenerateState call")
	}
}
