package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// RegisterSetCommand installs the built-in "set <name> <value...>"
// console command (§6 "Config/property file"): a flat config file is
// just a list of these, executed during init the same way any other
// boot command runs through Commands.RunCommand. The value's literal
// form is sniffed (bool words, then an integer, then a float, falling
// back to string) and dispatched to the matching SetLockAware*,
// retrying the next guess on a kind mismatch so e.g. "set c_tickrate 1"
// still lands on a float cvar even without a decimal point.
func RegisterSetCommand(commands *Commands, props *Properties) error {
	return commands.AddFunction("set", func(args []string) bool {
		if len(args) < 2 {
			Logf(VerbosityError, "console", "set: usage is \"set <name> <value>\"")
			return false
		}
		name, value := args[0], strings.Join(args[1:], " ")
		ok, err := dispatchSet(props, name, value)
		if !ok {
			Logf(VerbosityError, "console", "set %s: %v", name, err)
		}
		return ok
	}, true, false)
}

// dispatchSet tries each SetLockAware* setter that value's literal form
// could plausibly mean, in order, moving on to the next guess whenever a
// property exists under a different kind. It stops immediately on
// ErrPropertyLocked, since that's the value's actual kind refusing the
// write, not a wrong guess.
func dispatchSet(props *Properties, name, value string) (bool, error) {
	var attempts []func() (bool, error)
	if strings.EqualFold(value, "true") || strings.EqualFold(value, "false") {
		b := strings.EqualFold(value, "true")
		attempts = append(attempts, func() (bool, error) { return props.SetLockAwareBool(name, b) })
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		attempts = append(attempts, func() (bool, error) { return props.SetLockAwareInt(name, i) })
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		attempts = append(attempts, func() (bool, error) { return props.SetLockAwareFloat(name, f) })
	}
	attempts = append(attempts, func() (bool, error) { return props.SetLockAwareString(name, value) })

	var last error
	for _, try := range attempts {
		ok, err := try()
		if ok {
			return true, nil
		}
		last = err
		if errors.Is(err, ErrPropertyLocked) {
			return false, err
		}
	}
	return false, last
}

// ReadConfigFile parses a config/property file: one console command per
// line, almost always "set <name> <value>" (§6 "Config/property file"),
// blank lines and lines starting with '#' ignored. Grounded on the same
// line-oriented shape config/config.go uses for its own file, applied to
// a flat command list instead of yaml.
func ReadConfigFile(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmds = append(cmds, ParseCommand(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("console: reading config file: %w", err)
	}
	return cmds, nil
}

// LoadConfigFile opens path and parses it with ReadConfigFile. A missing
// file is reported as a plain error — callers that treat config as
// optional should check os.IsNotExist themselves.
func LoadConfigFile(path string) ([]Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadConfigFile(f)
}
