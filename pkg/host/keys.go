package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"golang.org/x/term"

	"github.com/justyntemme/godistortion/pkg/framework/param"
	"github.com/justyntemme/godistortion/pkg/midi"
)

// KeyStep is how many CC steps one key press moves a continuous parameter.
const KeyStep = 4

const keyInterrupt = 0x03

// KeyControl turns key presses into MIDI messages and applies them through a
// CCMap. Digits select the algorithm with a program change, the up/down pairs
// a/z, s/x and d/c nudge the controllers bound to CC 21, 22 and 23, and q
// quits.
type KeyControl struct {
	ccmap  *midi.CCMap
	target midi.Target
	params *param.Registry

	// Channel is the MIDI channel the messages are sent on.
	Channel uint8

	// OnChange is called after a key changed a parameter.
	OnChange func(id uint32)
}

var keyNudges = map[byte]struct {
	cc    uint8
	delta int
}{
	'a': {midi.CCInputGain, KeyStep},
	'z': {midi.CCInputGain, -KeyStep},
	's': {midi.CCOutputGain, KeyStep},
	'x': {midi.CCOutputGain, -KeyStep},
	'd': {midi.CCTone, KeyStep},
	'c': {midi.CCTone, -KeyStep},
}

// NewKeyControl creates a controller that writes to target and reads current
// values from params.
func NewKeyControl(ccmap *midi.CCMap, target midi.Target, params *param.Registry) *KeyControl {
	return &KeyControl{
		ccmap:  ccmap,
		target: target,
		params: params,
	}
}

// Message returns the MIDI message a key sends, or nil for keys without one.
func (k *KeyControl) Message(key byte) gomidi.Message {
	if key >= '0' && key <= '9' {
		program := key - '1'
		if key == '0' {
			program = 9
		}
		return gomidi.ProgramChange(k.Channel, program)
	}

	nudge, ok := keyNudges[key]
	if !ok {
		return nil
	}
	id, ok := k.ccmap.Lookup(nudge.cc)
	if !ok {
		return nil
	}
	p := k.params.Get(id)
	if p == nil {
		return nil
	}

	value := int(math.Round(p.GetValue()*127)) + nudge.delta
	value = max(0, min(127, value))
	return gomidi.ControlChange(k.Channel, nudge.cc, uint8(value))
}

// HandleKey applies one key press and reports whether it asked to quit.
func (k *KeyControl) HandleKey(key byte) (bool, error) {
	switch key {
	case 'q', 'Q', keyInterrupt:
		return true, nil
	}

	msg := k.Message(key)
	if msg == nil {
		return false, nil
	}
	ev, err := midi.Parse(msg.Bytes(), 0)
	if err != nil {
		return false, err
	}
	applied, err := k.ccmap.Apply(ev, k.target)
	if err != nil {
		return false, err
	}
	if applied && k.OnChange != nil {
		k.OnChange(k.changedID(ev))
	}
	return false, nil
}

func (k *KeyControl) changedID(ev midi.Event) uint32 {
	if cc, ok := ev.(midi.ControlChangeEvent); ok {
		id, _ := k.ccmap.Lookup(cc.Controller)
		return id
	}
	id, _ := k.ccmap.Program()
	return id
}

// Status formats every parameter on one line.
func (k *KeyControl) Status() string {
	var parts []string
	for _, p := range k.params.All() {
		label := p.ShortName
		if label == "" {
			label = p.Name
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, p.FormatValue(p.GetValue())))
	}
	return strings.Join(parts, "  ")
}

// Run puts f into raw mode when it is a terminal and serves keys until quit,
// end of input or ctx is done. The terminal is restored on return.
func (k *KeyControl) Run(ctx context.Context, f *os.File) error {
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw mode: %w", err)
		}
		defer term.Restore(fd, old)
	}
	return k.Serve(ctx, f)
}

// Serve reads keys from r until quit, end of input or ctx is done.
func (k *KeyControl) Serve(ctx context.Context, r io.Reader) error {
	keys := make(chan byte)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case keys <- buf[0]:
				case <-done:
					return
				}
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case key := <-keys:
			quit, err := k.HandleKey(key)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}
