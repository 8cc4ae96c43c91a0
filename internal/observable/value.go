// Package observable provides last-write-wins state cells that fan every
// published value out to any number of subscribers.
//
// A subscriber sees each value published after it subscribed, in publish order,
// preceded by the value current at subscription time (if any). Publishing never
// blocks on a slow subscriber: each subscriber has its own unbounded queue.
package observable

import (
	"context"
	"sync"
)

// Value is a single observable cell.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	isSet   bool
	subs    map[*subscriber[T]]struct{}
}

// NewValue returns a cell holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial, isSet: true}
}

// Set stores val and delivers it to every subscriber.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = val
	v.isSet = true
	for s := range v.subs {
		s.push(val)
	}
}

// Get returns the current value and whether one was ever set.
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.isSet
}

// Subscribe returns a channel that receives the current value followed by every
// later Set. The channel is closed once ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	s := &subscriber[T]{
		out:  make(chan T),
		wake: make(chan struct{}, 1),
		done: ctx.Done(),
	}

	v.mu.Lock()
	if v.subs == nil {
		v.subs = make(map[*subscriber[T]]struct{})
	}
	v.subs[s] = struct{}{}
	if v.isSet {
		s.push(v.current)
	}
	v.mu.Unlock()

	go func() {
		s.run()
		v.mu.Lock()
		delete(v.subs, s)
		v.mu.Unlock()
	}()

	return s.out
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

type subscriber[T any] struct {
	out  chan T
	wake chan struct{}
	done <-chan struct{}

	mu    sync.Mutex
	queue []T
}

func (s *subscriber[T]) push(val T) {
	s.mu.Lock()
	s.queue = append(s.queue, val)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) run() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		next := s.queue[0]
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.done:
			return
		}
	}
}
