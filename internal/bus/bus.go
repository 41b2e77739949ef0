package bus

import (
	"sync"
	"time"
)

// Topic identifies a class of cross-component notifications.
type Topic string

const (
	TopicComponentUpdated Topic = "component.updated"
	TopicMaterialIn       Topic = "backorder.material-in"
	TopicReturnSubmitted  Topic = "return.submitted"
)

// Event is what subscribers receive.
type Event struct {
	Topic   Topic
	Payload interface{}
	At      time.Time
}

// Handler consumes events for a topic.
type Handler func(Event)

// Bus is a synchronous in-process publish/subscribe hub. Producers and
// consumers are statically known through their Topic constants; there
// is no ambient global and no wildcard subscription.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[Topic]map[int]Handler
}

func New() *Bus {
	return &Bus{subs: make(map[Topic]map[int]Handler)}
}

// Subscribe registers a handler and returns its unsubscribe function.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	id := b.next
	b.next++
	b.subs[topic][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish delivers the payload to every current subscriber of the topic.
// Handlers run on the caller's goroutine; the subscriber set is
// snapshotted first so handlers may subscribe or unsubscribe reentrantly.
func (b *Bus) Publish(topic Topic, payload interface{}) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	ev := Event{Topic: topic, Payload: payload, At: time.Now()}
	for _, h := range handlers {
		h(ev)
	}
}
