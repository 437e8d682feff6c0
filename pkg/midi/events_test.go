package midi

import (
	"errors"
	"math"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestParseControlChange(t *testing.T) {
	ev, err := Parse([]byte{0xB3, 21, 100}, 480)
	if err != nil {
		t.Fatal(err)
	}

	cc, ok := ev.(ControlChangeEvent)
	if !ok {
		t.Fatalf("Parse returned %T", ev)
	}
	if cc.Channel() != 3 || cc.Controller != 21 || cc.Value != 100 || cc.SampleOffset() != 480 {
		t.Errorf("unexpected event %s", cc)
	}
	if cc.Type() != EventTypeControlChange || cc.Type().String() != "ControlChange" {
		t.Errorf("Type() = %v", cc.Type())
	}
	if math.Abs(cc.Normalized()-100.0/127.0) > 1e-12 {
		t.Errorf("Normalized() = %f", cc.Normalized())
	}
	if got := cc.String(); got != "CC{ch:3, ctrl:21, val:100, offset:480}" {
		t.Errorf("String() = %s", got)
	}
}

func TestParseProgramChange(t *testing.T) {
	ev, err := Parse(gomidi.ProgramChange(0, 7), 0)
	if err != nil {
		t.Fatal(err)
	}
	pc, ok := ev.(ProgramChangeEvent)
	if !ok || pc.Program != 7 || pc.Type() != EventTypeProgramChange {
		t.Errorf("unexpected event %v", ev)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	events := []Event{
		ControlChangeEvent{BaseEvent: BaseEvent{EventChannel: 15}, Controller: 127, Value: 0},
		ControlChangeEvent{BaseEvent: BaseEvent{EventChannel: 0}, Controller: 1, Value: 127},
		ProgramChangeEvent{BaseEvent: BaseEvent{EventChannel: 9}, Program: 3},
	}
	for _, want := range events {
		got, err := Parse(want.Message(), 0)
		if err != nil {
			t.Errorf("Parse(%s): %v", want, err)
			continue
		}
		if got != want {
			t.Errorf("round trip %s -> %s", want, got)
		}
	}
}

func TestParseUnsupported(t *testing.T) {
	tests := [][]byte{
		{0x90, 60, 100}, // note on
		{0xE0, 0, 64},   // pitch bend
		{},
		{0xB0},
	}
	for _, raw := range tests {
		if _, err := Parse(raw, 0); !errors.Is(err, ErrUnsupportedMessage) {
			t.Errorf("Parse(% X) = %v, want ErrUnsupportedMessage", raw, err)
		}
	}
}

func TestEventQueue(t *testing.T) {
	q := NewEventQueue()
	cc := func(offset int64, value uint8) Event {
		return ControlChangeEvent{BaseEvent: BaseEvent{Offset: offset}, Controller: 21, Value: value}
	}

	q.Add(cc(300, 3), cc(100, 1), cc(200, 2), cc(100, 9))
	if q.Size() != 4 {
		t.Fatalf("Size() = %d", q.Size())
	}

	got := q.Pop(200)
	if len(got) != 2 {
		t.Fatalf("Pop(200) returned %d events", len(got))
	}
	if got[0].(ControlChangeEvent).Value != 1 || got[1].(ControlChangeEvent).Value != 9 {
		t.Error("events at the same offset should keep insertion order")
	}
	if q.Pop(200) != nil {
		t.Error("second Pop should return nothing")
	}

	if next, ok := q.NextOffset(); !ok || next != 200 {
		t.Errorf("NextOffset() = %d, %v", next, ok)
	}

	all := q.GetAllEvents()
	if len(all) != 2 || all[0].SampleOffset() != 200 {
		t.Errorf("remaining events %v", all)
	}

	q.Clear()
	if q.Size() != 0 {
		t.Error("Clear should empty the queue")
	}
	if _, ok := q.NextOffset(); ok {
		t.Error("NextOffset on an empty queue should report false")
	}
	q.Add()
	if q.Size() != 0 {
		t.Error("Add with no events should be a no-op")
	}
}
