package search

import (
	"context"
	"sync"
)

// hub fans published states out to subscribers. New subscribers receive
// the latest state first, then every later state in publication order.
type hub struct {
	mu     sync.Mutex
	latest State
	subs   map[*Subscription]struct{}
	closed bool
}

func newHub(initial State) *hub {
	return &hub{
		latest: initial,
		subs:   make(map[*Subscription]struct{}),
	}
}

func (h *hub) publish(s State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.latest = s
	for sub := range h.subs {
		sub.push(s)
	}
}

func (h *hub) current() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

func (h *hub) subscribe(ctx context.Context) *Subscription {
	sub := &Subscription{
		hub:    h,
		out:    make(chan State),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	sub.queue = append(sub.queue, h.latest)
	if h.closed {
		sub.ended = true
	} else {
		h.subs[sub] = struct{}{}
	}
	h.mu.Unlock()

	sub.stopWatch = context.AfterFunc(ctx, sub.Close)
	go sub.pump()
	return sub
}

func (h *hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// close ends every subscription after its queued states are delivered.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		sub.end()
	}
	clear(h.subs)
}

// Subscription is one consumer's view of the state stream.
//
// Each subscription owns an unbounded, ordered mailbox, so a slow reader
// never blocks publication and never misses a transition.
type Subscription struct {
	hub *hub

	mu     sync.Mutex
	queue  []State
	ended  bool
	notify chan struct{}

	out       chan State
	done      chan struct{}
	closeOnce sync.Once
	stopWatch func() bool
}

// C returns the channel of states. It is closed when the subscription ends.
func (s *Subscription) C() <-chan State {
	return s.out
}

// Close ends the subscription. Pending states are dropped.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.hub.remove(s)
		if s.stopWatch != nil {
			s.stopWatch()
		}
	})
}

func (s *Subscription) push(st State) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, st)
	s.mu.Unlock()
	s.wake()
}

// end stops accepting states; the pump drains what is queued, then closes C.
func (s *Subscription) end() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
	s.wake()
}

func (s *Subscription) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()
		for len(s.queue) == 0 {
			if s.ended {
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()
			select {
			case <-s.notify:
			case <-s.done:
				return
			}
			s.mu.Lock()
		}
		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.done:
			return
		}
	}
}
