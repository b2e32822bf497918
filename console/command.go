package console

import (
	"fmt"
	"strings"
	"sync"
)

// Command is a parsed console request: the leading token plus its
// remaining whitespace-separated arguments.
type Command struct {
	Request   string
	Arguments []string
}

// Equal compares request and arguments; used by history dedup.
func (c Command) Equal(o Command) bool {
	if c.Request != o.Request || len(c.Arguments) != len(o.Arguments) {
		return false
	}
	for i := range c.Arguments {
		if c.Arguments[i] != o.Arguments[i] {
			return false
		}
	}
	return true
}

func (c Command) String() string {
	if len(c.Arguments) == 0 {
		return c.Request
	}
	return c.Request + " " + strings.Join(c.Arguments, " ")
}

// ParseCommand splits a command-line string on whitespace. The first
// token becomes Request, the rest Arguments.
func ParseCommand(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Request: fields[0], Arguments: fields[1:]}
}

// Func is a registered command callback. It receives the parsed
// arguments and reports success; a nil-argument "bool()" style function
// can simply ignore args.
type Func func(args []string) bool

type registeredFunc struct {
	fn     Func
	silent bool
}

// Commands is the command registry: named callbacks invokable from
// strings, with a de-duplicating history.
type Commands struct {
	mu      sync.Mutex
	funcs   map[string]registeredFunc
	history []Command
}

// NewCommands constructs an empty command registry.
func NewCommands() *Commands {
	return &Commands{funcs: make(map[string]registeredFunc)}
}

// AddFunction registers fn under name. If name is already registered and
// replace is false, an error is returned instead of overwriting it.
func (c *Commands) AddFunction(name string, fn Func, replace bool, silent bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.funcs[name]; exists && !replace {
		return fmt.Errorf("console: command %q already registered", name)
	}
	c.funcs[name] = registeredFunc{fn: fn, silent: silent}
	return nil
}

// EraseFunction removes a registered command, if any.
func (c *Commands) EraseFunction(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.funcs, name)
}

// RunCommand looks up cmd.Request and invokes it with cmd.Arguments. It
// returns false if no such command is registered or the callback itself
// reports failure. A successful, non-silent run is appended to history,
// de-duplicated against only the most recent entry (§9 DESIGN NOTES).
func (c *Commands) RunCommand(cmd Command) bool {
	c.mu.Lock()
	rf, ok := c.funcs[cmd.Request]
	c.mu.Unlock()
	if !ok {
		return false
	}

	ok = rf.fn(cmd.Arguments)
	if ok && !rf.silent {
		c.mu.Lock()
		if n := len(c.history); n == 0 || !c.history[n-1].Equal(cmd) {
			c.history = append(c.history, cmd)
		}
		c.mu.Unlock()
	}
	return ok
}

// GetFunctionNames returns the currently registered command names, for
// autocomplete.
func (c *Commands) GetFunctionNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.funcs))
	for name := range c.funcs {
		names = append(names, name)
	}
	return names
}

// CommandHistory returns the command history in execution order.
func (c *Commands) CommandHistory() []Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Command, len(c.history))
	copy(out, c.history)
	return out
}

// ParseArgs converts process arguments into boot Commands (§6 "Command
// line"): a token beginning with "-" starts a new command, with the
// leading dash stripped from its Request, and every following non-"-"
// token becomes one of its Arguments. Tokens before the first "-" token
// (e.g. argv[0]) are ignored.
func ParseArgs(args []string) []Command {
	var cmds []Command
	for _, tok := range args {
		if strings.HasPrefix(tok, "-") {
			cmds = append(cmds, Command{Request: strings.TrimPrefix(tok, "-")})
			continue
		}
		if len(cmds) == 0 {
			continue
		}
		last := &cmds[len(cmds)-1]
		last.Arguments = append(last.Arguments, tok)
	}
	return cmds
}

// HandleCommand is a boot-time utility: it runs fn against every command
// in cmds matching name, and returns cmds with those entries removed. Used
// to peel recognised boot flags (e.g. -compress) off the argument list
// before handing the remainder to the console (§4.D, §6).
func HandleCommand(cmds []Command, name string, fn Func) []Command {
	remaining := cmds[:0:0]
	for _, cmd := range cmds {
		if cmd.Request == name {
			fn(cmd.Arguments)
			continue
		}
		remaining = append(remaining, cmd)
	}
	return remaining
}
