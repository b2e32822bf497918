package console

import "testing"

// S2: make_command("spawn enemy 3 4") yields {request:"spawn",
// arguments:{"enemy","3","4"}}.
func TestScenarioS2Parse(t *testing.T) {
	cmd := ParseCommand("spawn enemy 3 4")
	want := Command{Request: "spawn", Arguments: []string{"enemy", "3", "4"}}
	if !cmd.Equal(want) {
		t.Fatalf("got %+v, want %+v", cmd, want)
	}
}

func TestScenarioS2RunAndHistory(t *testing.T) {
	c := NewCommands()
	var gotArgs []string
	err := c.AddFunction("spawn", func(args []string) bool {
		gotArgs = args
		return true
	}, false, false)
	if err != nil {
		t.Fatal(err)
	}

	cmd := ParseCommand("spawn enemy 3 4")
	if ok := c.RunCommand(cmd); !ok {
		t.Fatal("expected RunCommand to succeed")
	}
	if len(gotArgs) != 3 || gotArgs[0] != "enemy" {
		t.Fatalf("got args %v", gotArgs)
	}
	if h := c.CommandHistory(); len(h) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(h))
	}
}

// Invariant 8: running the same command twice in succession increases
// history length by exactly 1.
func TestCommandHistoryDedup(t *testing.T) {
	c := NewCommands()
	c.AddFunction("noop", func(args []string) bool { return true }, false, false)

	cmd := ParseCommand("noop")
	c.RunCommand(cmd)
	c.RunCommand(cmd)

	if h := c.CommandHistory(); len(h) != 1 {
		t.Fatalf("expected history len 1 after dup run, got %d: %v", len(h), h)
	}

	c.RunCommand(ParseCommand("noop other"))
	if h := c.CommandHistory(); len(h) != 2 {
		t.Fatalf("expected history len 2 after distinct run, got %d", len(h))
	}
}

func TestAddFunctionRejectsDuplicateUnlessReplace(t *testing.T) {
	c := NewCommands()
	fn := func(args []string) bool { return true }
	if err := c.AddFunction("x", fn, false, false); err != nil {
		t.Fatal(err)
	}
	if err := c.AddFunction("x", fn, false, false); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := c.AddFunction("x", fn, true, false); err != nil {
		t.Fatalf("replace=true should succeed: %v", err)
	}
}

func TestSilentCommandsAreNotRecorded(t *testing.T) {
	c := NewCommands()
	c.AddFunction("hush", func(args []string) bool { return true }, false, true)
	c.RunCommand(ParseCommand("hush"))
	if h := c.CommandHistory(); len(h) != 0 {
		t.Fatalf("silent command recorded: %v", h)
	}
}

func TestRunUnknownCommandReturnsFalse(t *testing.T) {
	c := NewCommands()
	if c.RunCommand(ParseCommand("nope")) {
		t.Fatal("expected false for unknown command")
	}
}

func TestParseArgsSplitsOnDashTokens(t *testing.T) {
	cmds := ParseArgs([]string{"-compress", "mods/pack1", "-uncompress", "a.zip", "b.zip"})
	want := []Command{
		{Request: "compress", Arguments: []string{"mods/pack1"}},
		{Request: "uncompress", Arguments: []string{"a.zip", "b.zip"}},
	}
	if len(cmds) != len(want) {
		t.Fatalf("got %+v, want %+v", cmds, want)
	}
	for i := range want {
		if !cmds[i].Equal(want[i]) {
			t.Fatalf("got %+v, want %+v", cmds[i], want[i])
		}
	}
}

func TestParseArgsIgnoresTokensBeforeFirstFlag(t *testing.T) {
	cmds := ParseArgs([]string{"hadesdemo", "-quit"})
	if len(cmds) != 1 || cmds[0].Request != "quit" {
		t.Fatalf("got %+v", cmds)
	}
}

func TestHandleCommandRemovesMatches(t *testing.T) {
	cmds := []Command{
		ParseCommand("compress dir1"),
		ParseCommand("run main"),
		ParseCommand("compress dir2"),
	}
	var got [][]string
	remaining := HandleCommand(cmds, "compress", func(args []string) bool {
		got = append(got, args)
		return true
	})
	if len(remaining) != 1 || remaining[0].Request != "run" {
		t.Fatalf("got remaining %v", remaining)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(got))
	}
}
