package console

import (
	"strings"
	"testing"
)

func newTestProps(t *testing.T) *Properties {
	t.Helper()
	p := NewProperties()
	if err := p.CreateInt("c_tickrate", 30, false); err != nil {
		t.Fatal(err)
	}
	if err := p.CreateFloat("c_gamma", 1.0, false); err != nil {
		t.Fatal(err)
	}
	if err := p.CreateBool("c_fullscreen", false, false); err != nil {
		t.Fatal(err)
	}
	if err := p.CreateString("c_name", "player", false); err != nil {
		t.Fatal(err)
	}
	if err := p.CreateInt("c_locked", 1, true); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDispatchSetSniffsKindByExistingProperty(t *testing.T) {
	p := newTestProps(t)

	if ok, err := dispatchSet(p, "c_tickrate", "60"); !ok {
		t.Fatalf("int set failed: %v", err)
	}
	if v, _ := p.GetInt("c_tickrate"); v.Load() != 60 {
		t.Fatalf("got %d", v.Load())
	}

	if ok, err := dispatchSet(p, "c_gamma", "2"); !ok {
		t.Fatalf("float set failed: %v", err)
	}
	if v, _ := p.GetFloat("c_gamma"); v.Load() != 2 {
		t.Fatalf("got %v", v.Load())
	}

	if ok, err := dispatchSet(p, "c_fullscreen", "true"); !ok {
		t.Fatalf("bool set failed: %v", err)
	}
	if v, _ := p.GetBool("c_fullscreen"); !v.Load() {
		t.Fatal("expected true")
	}

	if ok, err := dispatchSet(p, "c_name", "hades"); !ok {
		t.Fatalf("string set failed: %v", err)
	}
	if v, _ := p.GetString("c_name"); v.Load() != "hades" {
		t.Fatalf("got %q", v.Load())
	}
}

func TestDispatchSetStopsOnLockedProperty(t *testing.T) {
	p := newTestProps(t)
	if ok, err := dispatchSet(p, "c_locked", "2"); ok || err == nil {
		t.Fatalf("expected locked property to reject set, got ok=%v err=%v", ok, err)
	}
}

func TestRegisterSetCommandRunsThroughCommands(t *testing.T) {
	p := newTestProps(t)
	c := NewCommands()
	if err := RegisterSetCommand(c, p); err != nil {
		t.Fatal(err)
	}
	if !c.RunCommand(ParseCommand("set c_tickrate 144")) {
		t.Fatal("expected set command to succeed")
	}
	if v, _ := p.GetInt("c_tickrate"); v.Load() != 144 {
		t.Fatalf("got %d", v.Load())
	}
}

func TestReadConfigFileSkipsBlankAndCommentLines(t *testing.T) {
	const cfg = `# comment
set c_tickrate 90

set c_name hades
`
	cmds, err := ReadConfigFile(strings.NewReader(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d: %v", len(cmds), cmds)
	}
	if cmds[0].Request != "set" || cmds[0].Arguments[0] != "c_tickrate" {
		t.Fatalf("got %+v", cmds[0])
	}
}
