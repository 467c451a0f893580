// Package observable provides a single-value state holder whose
// subscribers always observe the latest value.
//
// A subscriber receives the current value immediately and then the value
// after each Set. Bursts of Set calls are coalesced: a slow subscriber
// skips intermediate values but never misses the last one.
package observable

import (
	"context"
	"sync"
)

// Value holds a value of type T and notifies subscribers of changes.
// The zero Value is not usable; call New.
type Value[T any] struct {
	mu   sync.Mutex
	val  T
	subs map[chan struct{}]struct{}
}

// New returns a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		val:  initial,
		subs: make(map[chan struct{}]struct{}),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.val
}

// Set replaces the value and wakes every subscriber.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.val = val
	v.notifyLocked()
	v.mu.Unlock()
}

// Update applies fn to the current value under the lock and stores the result.
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.val = fn(v.val)
	v.notifyLocked()
	return v.val
}

func (v *Value[T]) notifyLocked() {
	for ch := range v.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe returns a channel that yields the current value and every later
// one. The channel is closed once ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	wake := make(chan struct{}, 1)
	wake <- struct{}{}

	v.mu.Lock()
	v.subs[wake] = struct{}{}
	v.mu.Unlock()

	out := make(chan T)
	go func() {
		defer close(out)
		defer func() {
			v.mu.Lock()
			delete(v.subs, wake)
			v.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
			}
			select {
			case out <- v.Get():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}
