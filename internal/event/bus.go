// Package event is a small typed publish/subscribe bus. Delivery is
// synchronous on the publishing goroutine, in subscription order.
package event

// Bus delivers values of type T to its subscribers. The zero value is ready
// to use. A Bus is not safe for concurrent use.
type Bus[T any] struct {
	subs []*subscription[T]
}

// Subscription is the handle returned by Subscribe. Close detaches the
// handler; it is safe to call more than once.
type Subscription interface {
	Close()
}

type subscription[T any] struct {
	bus    *Bus[T]
	fn     func(T)
	closed bool
}

// Subscribe registers fn and returns the handle that releases it.
func (b *Bus[T]) Subscribe(fn func(T)) Subscription {
	s := &subscription[T]{bus: b, fn: fn}
	b.subs = append(b.subs, s)
	return s
}

// Publish calls every live handler with ev. Handlers added during Publish
// see the next event, handlers closed during Publish are skipped.
func (b *Bus[T]) Publish(ev T) {
	snapshot := make([]*subscription[T], len(b.subs))
	copy(snapshot, b.subs)
	for _, s := range snapshot {
		if !s.closed {
			s.fn(ev)
		}
	}
}

// Len returns the number of live subscriptions.
func (b *Bus[T]) Len() int {
	return len(b.subs)
}

func (s *subscription[T]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	subs := s.bus.subs
	for i, other := range subs {
		if other == s {
			s.bus.subs = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Group collects subscriptions so a component can release all of them at once.
type Group struct {
	subs []Subscription
}

// Add keeps s until Close.
func (g *Group) Add(s ...Subscription) {
	g.subs = append(g.subs, s...)
}

// Close releases every subscription in reverse order of registration.
func (g *Group) Close() {
	for i := len(g.subs) - 1; i >= 0; i-- {
		g.subs[i].Close()
	}
	g.subs = nil
}
