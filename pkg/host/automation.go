package host

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/justyntemme/godistortion/pkg/framework/param"
)

// AutomateFunc is the global function an automation script must define.
const AutomateFunc = "automate"

var (
	// ErrNoAutomate is returned when a script does not define automate.
	ErrNoAutomate = errors.New("script does not define function " + AutomateFunc)
	// ErrAutomationValue is returned for results that are not identifier/value tables.
	ErrAutomationValue = errors.New("invalid automation value")
)

// Automation drives parameters from a Lua script. The script defines
//
//	function automate(t) return { tone = 6 * math.sin(t) } end
//
// where t is the block start time in seconds and each value is in plain
// units. Choice parameters also accept item names as strings.
type Automation struct {
	mu sync.Mutex
	L  *lua.LState
	fn *lua.LFunction
}

// NewAutomation compiles a script.
func NewAutomation(source string) (*Automation, error) {
	L := lua.NewState()
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("load automation: %w", err)
	}

	fn, ok := L.GetGlobal(AutomateFunc).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, ErrNoAutomate
	}
	return &Automation{L: L, fn: fn}, nil
}

// LoadAutomation reads and compiles a script file.
func LoadAutomation(path string) (*Automation, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := NewAutomation(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Value is one automated setting. Text is set for string results.
type Value struct {
	Identifier string
	Plain      float64
	Text       string
}

// At evaluates the script at seconds. Results are sorted by identifier.
func (a *Automation) At(seconds float64) ([]Value, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.L.CallByParam(lua.P{
		Fn:      a.fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(seconds)); err != nil {
		return nil, fmt.Errorf("automate(%g): %w", seconds, err)
	}
	ret := a.L.Get(-1)
	a.L.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return nil, nil
	case *lua.LTable:
		return tableValues(v)
	default:
		return nil, fmt.Errorf("%w: automate returned %s", ErrAutomationValue, ret.Type())
	}
}

func tableValues(t *lua.LTable) ([]Value, error) {
	var values []Value
	var err error
	t.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("%w: key %s is not a string", ErrAutomationValue, k)
			return
		}
		switch val := v.(type) {
		case lua.LNumber:
			values = append(values, Value{Identifier: string(key), Plain: float64(val)})
		case lua.LBool:
			plain := 0.0
			if val {
				plain = 1
			}
			values = append(values, Value{Identifier: string(key), Plain: plain})
		case lua.LString:
			values = append(values, Value{Identifier: string(key), Text: string(val)})
		default:
			err = fmt.Errorf("%w: %s = %s", ErrAutomationValue, key, v.Type())
		}
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(values, func(i, j int) bool { return values[i].Identifier < values[j].Identifier })
	return values, nil
}

// Apply evaluates the script at seconds and writes the results into params.
func (a *Automation) Apply(seconds float64, params *param.Registry) error {
	values, err := a.At(seconds)
	if err != nil {
		return err
	}
	for _, v := range values {
		p, err := params.Lookup(v.Identifier)
		if err != nil {
			return err
		}
		if v.Text == "" {
			p.SetPlainValue(v.Plain)
			continue
		}
		normalized, err := p.ParseValue(v.Text)
		if err != nil {
			return fmt.Errorf("%w: %s = %q: %w", ErrAutomationValue, v.Identifier, v.Text, err)
		}
		p.SetValue(normalized)
	}
	return nil
}

// Close releases the Lua state.
func (a *Automation) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.L != nil {
		a.L.Close()
		a.L = nil
	}
}
