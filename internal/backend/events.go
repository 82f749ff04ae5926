package backend

import (
	"sync"

	"github.com/MKhiriev/ubuntu-pools/models"
)

// EventHub fans session-lifecycle changes out to subscribers. Every
// subscriber has its own goroutine and queue, so a slow handler never delays
// another one and each handler sees changes in publication order.
type EventHub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*Subscription
	closed bool
}

// NewEventHub returns a hub with no subscribers.
func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[uint64]*Subscription)}
}

// Subscribe registers handler. The returned [Subscription] must be released
// with Unsubscribe.
func (h *EventHub) Subscribe(handler func(models.AuthChange)) *Subscription {
	s := &Subscription{
		hub:     h,
		handler: handler,
		done:    make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		s.closed = true
		close(s.done)
		return s
	}
	h.nextID++
	s.id = h.nextID
	h.subs[s.id] = s
	h.mu.Unlock()

	go s.loop()
	return s
}

// Publish queues change for every current subscriber.
func (h *EventHub) Publish(change models.AuthChange) {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.push(change)
	}
}

// Len returns the number of live subscriptions.
func (h *EventHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close releases every subscription and refuses new ones.
func (h *EventHub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := h.subs
	h.subs = make(map[uint64]*Subscription)
	h.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}

func (h *EventHub) remove(id uint64) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// Subscription is a registration returned by [EventHub.Subscribe] and
// [Client.OnAuthStateChange].
type Subscription struct {
	id      uint64
	hub     *EventHub
	handler func(models.AuthChange)

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []models.AuthChange
	closed bool

	done chan struct{}
	once sync.Once
}

// Unsubscribe releases the subscription. No handler call starts after it
// returns; a call already running is not interrupted, use Done to wait for
// it. Unsubscribe is safe to call more than once and from the handler itself.
func (s *Subscription) Unsubscribe() {
	s.hub.remove(s.id)
	s.stop()
}

// Done is closed once the delivery goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) stop() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.queue = nil
		s.cond.Broadcast()
		s.mu.Unlock()
	})
}

func (s *Subscription) push(change models.AuthChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queue = append(s.queue, change)
	s.cond.Signal()
}

func (s *Subscription) loop() {
	defer close(s.done)

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		change := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.handler(change)
	}
}
