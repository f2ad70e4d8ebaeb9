package listener

import (
	"fmt"
	"strings"
)

// fakeEngine records every call made against it, in order.
type fakeEngine struct {
	calls []string
	fail  map[string]error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{fail: make(map[string]error)}
}

func (e *fakeEngine) record(call string) error {
	e.calls = append(e.calls, call)
	name, _, _ := strings.Cut(call, "(")
	return e.fail[name]
}

func (e *fakeEngine) Configure() Configurator {
	e.calls = append(e.calls, "configure")
	return &fakeConfig{engine: e}
}

func (e *fakeEngine) TurnOn() error  { return e.record("turnOn") }
func (e *fakeEngine) TurnOff() error { return e.record("turnOff") }

func (e *fakeEngine) InsertCassette(name string) error {
	return e.record(fmt.Sprintf("insertCassette(%s)", name))
}

func (e *fakeEngine) called(name string) bool {
	for _, c := range e.calls {
		if c == name || strings.HasPrefix(c, name+"(") {
			return true
		}
	}
	return false
}

type fakeConfig struct {
	engine *fakeEngine
}

func (c *fakeConfig) SetMode(mode string) error {
	return c.engine.record(fmt.Sprintf("setMode(%s)", mode))
}

func (c *fakeConfig) SetCassettePath(path string) error {
	return c.engine.record(fmt.Sprintf("setCassettePath(%s)", path))
}

func (c *fakeConfig) EnableRequestMatchers(names []string) error {
	return c.engine.record(fmt.Sprintf("enableRequestMatchers(%s)", strings.Join(names, ",")))
}

func (c *fakeConfig) SetWhiteList(patterns []string) error {
	return c.engine.record(fmt.Sprintf("setWhiteList(%s)", strings.Join(patterns, ",")))
}

func (c *fakeConfig) SetBlackList(patterns []string) error {
	return c.engine.record(fmt.Sprintf("setBlackList(%s)", strings.Join(patterns, ",")))
}

func (c *fakeConfig) SetStorage(storage string) error {
	return c.engine.record(fmt.Sprintf("setStorage(%s)", storage))
}

// namedTest is a Test with a fixed name.
type namedTest string

func (n namedTest) Name() string { return string(n) }
