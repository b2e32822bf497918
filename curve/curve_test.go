package curve

import "testing"

func TestStepGet(t *testing.T) {
	s := NewStep[int64](0)
	if v := s.Get(5); v != 0 {
		t.Fatalf("empty step: got %d, want default 0", v)
	}
	s.Set(10, 1)
	s.Set(20, 2)

	cases := []struct {
		at   Time
		want int64
	}{
		{5, 0},
		{10, 1},
		{15, 1},
		{20, 2},
		{100, 2},
	}
	for _, c := range cases {
		if v := s.Get(c.at); v != c.want {
			t.Fatalf("Get(%d) = %d, want %d", c.at, v, c.want)
		}
	}
}

func TestStepReplaceKeyframes(t *testing.T) {
	s := NewStep[int64](0)
	s.Set(10, 1)
	s.Set(20, 2)
	s.Set(30, 3)

	s.ReplaceKeyframes(20, 99)

	if got := s.Keyframes(); len(got) != 2 {
		t.Fatalf("expected 2 keyframes after replace, got %d: %v", len(got), got)
	}
	if v := s.Get(20); v != 99 {
		t.Fatalf("Get(20) = %d, want 99", v)
	}
	if v := s.Get(100); v != 99 {
		t.Fatalf("Get(100) = %d, want 99 (no keyframe survived at 30)", v)
	}
}

func TestLinearInterpolation(t *testing.T) {
	l := NewLinear[float64](0)
	l.Set(0, 0)
	l.Set(10, 100)

	if v := l.Get(5); v != 50 {
		t.Fatalf("Get(5) = %v, want 50", v)
	}
	if v := l.Get(-5); v != 0 {
		t.Fatalf("Get(-5) = %v, want 0 (closest endpoint)", v)
	}
	if v := l.Get(15); v != 100 {
		t.Fatalf("Get(15) = %v, want 100 (closest endpoint)", v)
	}
}

func TestLinearVec2Interpolation(t *testing.T) {
	l := NewLinear[Vec2](Vec2{})
	l.Set(0, Vec2{X: 0, Y: 0})
	l.Set(10, Vec2{X: 10, Y: 20})

	got := l.Get(5)
	want := Vec2{X: 5, Y: 10}
	if got != want {
		t.Fatalf("Get(5) = %+v, want %+v", got, want)
	}
}

func TestLinearSingleKeyframe(t *testing.T) {
	l := NewLinear[float64](0)
	l.Set(10, 5)
	if v := l.Get(0); v != 5 {
		t.Fatalf("Get(0) = %v, want 5 (only keyframe)", v)
	}
	if v := l.Get(100); v != 5 {
		t.Fatalf("Get(100) = %v, want 5", v)
	}
}

func TestPulseGetAndEventsIn(t *testing.T) {
	p := NewPulse[int64](-1)
	p.Set(10, 1)
	p.Set(20, 2)
	p.Set(30, 3)

	if at, v, ok := p.Get(25); !ok || at != 20 || v != 2 {
		t.Fatalf("Get(25) = (%d, %d, %v), want (20, 2, true)", at, v, ok)
	}
	if _, _, ok := p.Get(5); ok {
		t.Fatal("Get(5) should report no event yet")
	}

	events := p.EventsIn(10, 30)
	if len(events) != 2 || events[0].At != 20 || events[1].At != 30 {
		t.Fatalf("EventsIn(10, 30) = %v, want events at 20 and 30", events)
	}

	events = p.EventsIn(0, 10)
	if len(events) != 1 || events[0].At != 10 {
		t.Fatalf("EventsIn(0, 10) = %v, want event at 10", events)
	}
}

func TestReplaceKeyframesInvariant(t *testing.T) {
	l := NewLinear[float64](0)
	l.Set(1, 1)
	l.Set(2, 2)
	l.Set(3, 3)
	l.ReplaceKeyframes(2, 20)

	kf := l.Keyframes()
	if len(kf) != 2 {
		t.Fatalf("expected 2 keyframes, got %d: %v", len(kf), kf)
	}
	if kf[0].At != 1 || kf[1].At != 2 || kf[1].Value != 20 {
		t.Fatalf("unexpected keyframes after replace: %v", kf)
	}
}

func TestDurationFromString(t *testing.T) {
	cases := map[string]Time{
		"500ms": 500_000_000,
		"2s":    2_000_000_000,
		"100us": 100_000,
		"3ns":   3,
	}
	for s, want := range cases {
		got, err := DurationFromString(s)
		if err != nil {
			t.Fatalf("DurationFromString(%q): %v", s, err)
		}
		if got != want {
			t.Fatalf("DurationFromString(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestNormaliseTime(t *testing.T) {
	if f := NormaliseTime(5, 10); f != 0.5 {
		t.Fatalf("got %v, want 0.5", f)
	}
	if f := NormaliseTime(15, 10); f != 0.5 {
		t.Fatalf("wraparound: got %v, want 0.5", f)
	}
	if f := NormaliseTime(1, 0); f != 0 {
		t.Fatalf("zero period: got %v, want 0", f)
	}
}
