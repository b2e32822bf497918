package app

import (
	"testing"
	"testing/fstest"

	"github.com/cyanskies/hades/console"
	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/data"
	"github.com/cyanskies/hades/input"
	"github.com/cyanskies/hades/uid"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	fsys := fstest.MapFS{
		"game/game.yaml": &fstest.MapFile{Data: []byte("mod:\n  name: game\n")},
	}
	reg := uid.NewRegistry()
	g := data.NewGraph(reg, fsys)
	commands := console.NewCommands()
	in := input.NewSystem(reg)
	a := New(g, commands, in, curve.Time(1), curve.Time(4))
	t.Cleanup(func() {
		console.SetLog(nil)
		console.SetProvider(nil)
	})
	return a
}

func TestInitInstallsProviders(t *testing.T) {
	a := newTestApp(t)
	if err := a.Init(nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if console.SharedLog() != a.Log {
		t.Fatal("Init did not install the app's log as the process-wide sink")
	}
	if console.Provider() != a.Props {
		t.Fatal("Init did not install the app's properties as the process-wide provider")
	}
}

func TestInitRunsRegisterBeforeLoadingGame(t *testing.T) {
	a := newTestApp(t)
	var registered bool
	err := a.Init(func(g *data.Graph) error {
		registered = true
		if g.Loaded("game") {
			t.Fatal("register_fn ran after the base game was already loaded")
		}
		if g != a.Data {
			t.Fatal("register_fn received a different graph than a.Data")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !registered {
		t.Fatal("register_fn was never called")
	}
}

func TestInitPropagatesRegisterError(t *testing.T) {
	a := newTestApp(t)
	wantErr := "boom"
	err := a.Init(func(*data.Graph) error { return errUnitTest(wantErr) })
	if err == nil {
		t.Fatal("want error from a failing register_fn")
	}
}

type errUnitTest string

func (e errUnitTest) Error() string { return string(e) }

type fakeState struct {
	initCalled   bool
	aliveVal     bool
	focusLog     *[]string
	updateCalls  int
	drawCalls    int
	lastDT       curve.Time
}

func (f *fakeState) Init()                                       { f.initCalled = true }
func (f *fakeState) HandleEvent(Event)                           {}
func (f *fakeState) Update(dt curve.Time, actions input.ActionSet) {
	f.updateCalls++
	f.lastDT = dt
}
func (f *fakeState) Draw(curve.Time) { f.drawCalls++ }
func (f *fakeState) Reinit()         { *f.focusLog = append(*f.focusLog, "reinit") }
func (f *fakeState) Pause()          {}
func (f *fakeState) Resume()         {}
func (f *fakeState) IsAlive() bool   { return f.aliveVal }
func (f *fakeState) IsInit() bool    { return f.initCalled }
func (f *fakeState) Paused() bool    { return false }
func (f *fakeState) DropFocus()      { *f.focusLog = append(*f.focusLog, "drop") }
func (f *fakeState) GrabFocus()      { *f.focusLog = append(*f.focusLog, "grab") }

func TestPushCallsInitAndDropsPreviousFocus(t *testing.T) {
	a := newTestApp(t)
	var log []string
	first := &fakeState{aliveVal: true, focusLog: &log}
	second := &fakeState{aliveVal: true, focusLog: &log}

	a.Push(first)
	if !first.initCalled {
		t.Fatal("Push did not call Init on the new state")
	}
	a.Push(second)
	if len(log) != 1 || log[0] != "drop" {
		t.Fatalf("want DropFocus on the previous top, got %v", log)
	}
	if !second.initCalled {
		t.Fatal("Push did not call Init on the second state")
	}
}

func TestPopGrabsFocusAndReinitsNewTop(t *testing.T) {
	a := newTestApp(t)
	var log []string
	first := &fakeState{aliveVal: true, focusLog: &log}
	second := &fakeState{aliveVal: true, focusLog: &log}
	a.Push(first)
	a.Push(second)
	log = nil

	a.Pop()
	if len(log) != 2 || log[0] != "grab" || log[1] != "reinit" {
		t.Fatalf("want [grab reinit] on the new top, got %v", log)
	}
	if a.Top() != first {
		t.Fatalf("Top() = %v, want first", a.Top())
	}
}

func TestPopOnEmptyStackIsNoop(t *testing.T) {
	a := newTestApp(t)
	a.Pop() // must not panic
	if a.Top() != nil {
		t.Fatal("Top() should be nil on an empty stack")
	}
}

func TestRunStopsWhenTopNotAlive(t *testing.T) {
	a := newTestApp(t)
	var log []string
	s := &fakeState{aliveVal: false, focusLog: &log}
	a.Push(s)
	a.Run() // should return immediately, never calling Update/Draw
	if s.updateCalls != 0 || s.drawCalls != 0 {
		t.Fatalf("Run ticked a dead top state: updates=%d draws=%d", s.updateCalls, s.drawCalls)
	}
}

func TestRunTicksUntilStop(t *testing.T) {
	a := newTestApp(t)
	var log []string
	s := &fakeState{aliveVal: true, focusLog: &log}
	a.Push(s)

	calls := 0
	a.EventPump = func() []Event {
		calls++
		if calls >= 3 {
			a.Stop()
		}
		return nil
	}
	a.Run()

	if s.updateCalls == 0 || s.drawCalls == 0 {
		t.Fatal("Run never ticked the top state before Stop")
	}
}

func TestPostInitRunsBootCommandsThenMain(t *testing.T) {
	a := newTestApp(t)
	if err := a.Init(nil); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var ran []string
	a.Commands.AddFunction("boot-flag", func(args []string) bool {
		ran = append(ran, "boot-flag")
		return true
	}, false, true)

	var mainCalled bool
	boot := []console.Command{{Request: "boot-flag"}}
	err := a.PostInit(boot, func(app *App, in *input.System, cmds *console.Commands) error {
		mainCalled = true
		if app != a {
			t.Fatal("main received a different App")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("PostInit: %v", err)
	}
	if len(ran) != 1 {
		t.Fatalf("boot command did not run: %v", ran)
	}
	if !mainCalled {
		t.Fatal("PostInit did not invoke main")
	}
}

func TestCleanUpEmptiesStackAndDropsData(t *testing.T) {
	a := newTestApp(t)
	var log []string
	s := &fakeState{aliveVal: true, focusLog: &log}
	a.Push(s)

	a.CleanUp()
	if a.Top() != nil {
		t.Fatal("CleanUp did not empty the state stack")
	}
	if a.Data != nil {
		t.Fatal("CleanUp did not drop the data graph reference")
	}
	if console.SharedLog() != nil {
		t.Fatal("CleanUp did not clear the process-wide log sink")
	}
}
