// Package midi turns MIDI control messages into parameter changes.
package midi

import (
	"errors"
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// ErrUnsupportedMessage is returned by Parse for messages other than control
// and program changes.
var ErrUnsupportedMessage = errors.New("unsupported MIDI message")

type EventType uint8

const (
	EventTypeControlChange EventType = iota
	EventTypeProgramChange
)

func (t EventType) String() string {
	switch t {
	case EventTypeControlChange:
		return "ControlChange"
	case EventTypeProgramChange:
		return "ProgramChange"
	default:
		return "Unknown"
	}
}

type Event interface {
	Type() EventType
	Channel() uint8
	SampleOffset() int64
	Message() gomidi.Message
	String() string
}

type BaseEvent struct {
	EventChannel uint8
	Offset       int64
}

func (e BaseEvent) Channel() uint8 {
	return e.EventChannel
}

func (e BaseEvent) SampleOffset() int64 {
	return e.Offset
}

type ControlChangeEvent struct {
	BaseEvent
	Controller uint8
	Value      uint8
}

func (e ControlChangeEvent) Type() EventType {
	return EventTypeControlChange
}

// Message encodes the event as a wire message.
func (e ControlChangeEvent) Message() gomidi.Message {
	return gomidi.ControlChange(e.EventChannel, e.Controller, e.Value)
}

// Normalized maps the 7-bit value onto 0..1.
func (e ControlChangeEvent) Normalized() float64 {
	return float64(e.Value) / 127.0
}

func (e ControlChangeEvent) String() string {
	return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d, offset:%d}",
		e.EventChannel, e.Controller, e.Value, e.Offset)
}

type ProgramChangeEvent struct {
	BaseEvent
	Program uint8
}

func (e ProgramChangeEvent) Type() EventType {
	return EventTypeProgramChange
}

// Message encodes the event as a wire message.
func (e ProgramChangeEvent) Message() gomidi.Message {
	return gomidi.ProgramChange(e.EventChannel, e.Program)
}

func (e ProgramChangeEvent) String() string {
	return fmt.Sprintf("PC{ch:%d, prog:%d, offset:%d}", e.EventChannel, e.Program, e.Offset)
}

// Parse decodes a raw control or program change message scheduled at offset.
func Parse(raw []byte, offset int64) (Event, error) {
	if len(raw) < 2 || (raw[0]&0xF0 != 0xC0 && len(raw) < 3) {
		return nil, fmt.Errorf("%w: % X", ErrUnsupportedMessage, raw)
	}
	msg := gomidi.Message(raw)

	var ch, a, b uint8
	switch {
	case msg.GetControlChange(&ch, &a, &b):
		return ControlChangeEvent{
			BaseEvent:  BaseEvent{EventChannel: ch, Offset: offset},
			Controller: a,
			Value:      b,
		}, nil
	case msg.GetProgramChange(&ch, &a):
		return ProgramChangeEvent{
			BaseEvent: BaseEvent{EventChannel: ch, Offset: offset},
			Program:   a,
		}, nil
	}
	return nil, fmt.Errorf("%w: % X", ErrUnsupportedMessage, raw)
}

// Controller numbers bound by DefaultCCMap (general purpose 20-23)
const (
	CCDistortionType uint8 = 20
	CCInputGain      uint8 = 21
	CCOutputGain     uint8 = 22
	CCTone           uint8 = 23
)
