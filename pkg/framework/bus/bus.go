// Package bus describes the audio and event buses of the processor and
// negotiates which channel layouts it accepts.
package bus

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLayout is returned for channel layouts the processor refuses.
var ErrUnsupportedLayout = errors.New("unsupported channel layout")

// MediaType represents the type of bus
type MediaType int32

const (
	// MediaTypeAudio represents audio bus type
	MediaTypeAudio MediaType = 0
	// MediaTypeEvent represents event/MIDI bus type
	MediaTypeEvent MediaType = 1
)

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Info contains bus configuration
type Info struct {
	MediaType    MediaType
	Direction    Direction
	ChannelCount int32
	Name         string
	IsActive     bool
}

// Configuration manages audio and event buses
type Configuration struct {
	audioBuses []Info
	eventBuses []Info
}

// NewConfiguration creates a single main input and output bus with the given
// channel counts. The layout is not checked here; see Supports.
func NewConfiguration(inputChannels, outputChannels int) *Configuration {
	return &Configuration{
		audioBuses: []Info{
			{
				MediaType:    MediaTypeAudio,
				Direction:    DirectionInput,
				ChannelCount: int32(inputChannels),
				Name:         channelName(inputChannels) + " In",
				IsActive:     true,
			},
			{
				MediaType:    MediaTypeAudio,
				Direction:    DirectionOutput,
				ChannelCount: int32(outputChannels),
				Name:         channelName(outputChannels) + " Out",
				IsActive:     true,
			},
		},
	}
}

// NewStereoConfiguration creates a standard stereo I/O configuration
func NewStereoConfiguration() *Configuration {
	return NewConfiguration(2, 2)
}

// NewMonoConfiguration creates a mono I/O configuration
func NewMonoConfiguration() *Configuration {
	return NewConfiguration(1, 1)
}

func channelName(n int) string {
	switch n {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%dch", n)
	}
}

// GetBusCount returns the number of buses for a given type and direction
func (c *Configuration) GetBusCount(mediaType MediaType, direction Direction) int32 {
	count := int32(0)

	buses := c.audioBuses
	if mediaType == MediaTypeEvent {
		buses = c.eventBuses
	}

	for _, bus := range buses {
		if bus.Direction == direction {
			count++
		}
	}

	return count
}

// GetBusInfo returns information about a specific bus
func (c *Configuration) GetBusInfo(mediaType MediaType, direction Direction, index int32) *Info {
	buses := c.audioBuses
	if mediaType == MediaTypeEvent {
		buses = c.eventBuses
	}

	busIndex := int32(0)
	for i := range buses {
		if buses[i].Direction == direction {
			if busIndex == index {
				return &buses[i]
			}
			busIndex++
		}
	}

	return nil
}

// MainChannels returns the channel count of the first audio bus in the given direction.
func (c *Configuration) MainChannels(direction Direction) int {
	if info := c.GetBusInfo(MediaTypeAudio, direction, 0); info != nil {
		return int(info.ChannelCount)
	}
	return 0
}

// AddEventBus adds an event bus (for MIDI input)
func (c *Configuration) AddEventBus(direction Direction, name string) {
	c.eventBuses = append(c.eventBuses, Info{
		MediaType:    MediaTypeEvent,
		Direction:    direction,
		ChannelCount: 1,
		Name:         name,
		IsActive:     true,
	})
}

// Validate checks the main audio buses against the layout rules.
func (c *Configuration) Validate(rules Layout) error {
	return rules.Supports(c.MainChannels(DirectionInput), c.MainChannels(DirectionOutput))
}
