// Package events allows for the registering and receiving of ledger events.
package events

import (
	"fmt"
	"sync"
	"time"
)

// messageBuffer is the number of events a subscriber can fall behind by
// before events are dropped for it. Websocket sends can be slow.
const messageBuffer = 100

// Event is a single ledger event delivered to subscribers.
type Event struct {
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Events maintains a mapping of unique id and channels so goroutines
// can register and receive events.
type Events struct {
	m  map[string]chan Event
	mu sync.RWMutex
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]chan Event),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.m {
		delete(evt.m, id)
		close(ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used
// to receive events.
func (evt *Events) Acquire(id string) <-chan Event {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if exists {
		return ch
	}

	evt.m[id] = make(chan Event, messageBuffer)
	return evt.m[id]
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(ch)
	return nil
}

// Send signals a message to every registered channel. Send will not block
// waiting for a receiver on any given channel.
func (evt *Events) Send(s string) {
	e := Event{
		Message: s,
		Time:    time.Now().UTC(),
	}

	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.m {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribers returns the number of registered channels.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.m)
}
