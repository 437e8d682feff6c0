package midi

import (
	"sort"
	"sync"
)

// EventQueue holds events ordered by sample offset.
type EventQueue struct {
	events []Event
	mu     sync.Mutex
	sorted bool
}

func NewEventQueue() *EventQueue {
	return &EventQueue{
		events: make([]Event, 0, 128),
		sorted: true,
	}
}

func (q *EventQueue) Add(events ...Event) {
	if len(events) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, events...)
	q.sorted = false
}

// sortEvents keeps insertion order for events at the same offset.
func (q *EventQueue) sortEvents() {
	if q.sorted {
		return
	}
	sort.SliceStable(q.events, func(i, j int) bool {
		return q.events[i].SampleOffset() < q.events[j].SampleOffset()
	})
	q.sorted = true
}

// Pop removes and returns the events with offsets before endSample.
func (q *EventQueue) Pop(endSample int64) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.sortEvents()

	n := sort.Search(len(q.events), func(i int) bool {
		return q.events[i].SampleOffset() >= endSample
	})
	if n == 0 {
		return nil
	}

	result := make([]Event, n)
	copy(result, q.events[:n])
	q.events = append(q.events[:0], q.events[n:]...)
	return result
}

// NextOffset returns the offset of the earliest queued event.
func (q *EventQueue) NextOffset() (int64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return 0, false
	}
	q.sortEvents()
	return q.events[0].SampleOffset(), true
}

// GetAllEvents returns a sorted copy of the queue.
func (q *EventQueue) GetAllEvents() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.sortEvents()
	result := make([]Event, len(q.events))
	copy(result, q.events)
	return result
}

// Clear drops every queued event.
func (q *EventQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = q.events[:0]
	q.sorted = true
}

func (q *EventQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
