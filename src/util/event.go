package util

import (
	"context"
	"sync"
	"time"
)

// An Eventer is a type that emits events to its listeners.
type Eventer interface {
	Events() *Emitter
}

// Emitter broadcasts events to an arbitrary number of listeners.
//
// The zero value is ready for use.
type Emitter struct {
	// The Release attribute determines how much time an event should be
	// buffered to coalesce duplicate emissions.
	// A zero value disables buffering.
	Release time.Duration

	lock      sync.Mutex
	listeners map[chan interface{}]context.Context

	release map[interface{}]struct{}
}

// Events implements the Eventer interface.
func (emitter *Emitter) Events() *Emitter {
	return emitter
}

func (emitter *Emitter) init() {
	if emitter.listeners == nil {
		emitter.listeners = map[chan interface{}]context.Context{}
		emitter.release = map[interface{}]struct{}{}
	}
}

// broadcast delivers under the lock so a listener can not be closed while a
// send to it is in flight. Listeners that do not keep up have events dropped
// rather than stalling the emitting caller.
func (emitter *Emitter) broadcast(event interface{}) {
	emitter.lock.Lock()
	defer emitter.lock.Unlock()
	for listener := range emitter.listeners {
		select {
		case listener <- event:
		default:
		}
	}
}

// Emit broadcasts an event to all current listeners.
//
// Events that compare equal are coalesced while a Release window for that
// event is pending.
func (emitter *Emitter) Emit(event interface{}) {
	emitter.lock.Lock()
	emitter.init()

	if emitter.Release == 0 {
		emitter.lock.Unlock()
		emitter.broadcast(event)
		return
	}

	// Check whether the event is already scheduled.
	if _, ok := emitter.release[event]; ok {
		emitter.lock.Unlock()
		return
	}
	emitter.release[event] = struct{}{}
	emitter.lock.Unlock()

	go func() {
		time.Sleep(emitter.Release)
		emitter.lock.Lock()
		delete(emitter.release, event)
		emitter.lock.Unlock()
		emitter.broadcast(event)
	}()
}

// Listen registers a new listener channel. The listener is removed when the
// context is canceled.
func (emitter *Emitter) Listen(ctx context.Context) <-chan interface{} {
	emitter.lock.Lock()
	defer emitter.lock.Unlock()
	emitter.init()

	ch := make(chan interface{}, 8)
	emitter.listeners[ch] = ctx
	go func() {
		<-ctx.Done()
		emitter.lock.Lock()
		defer emitter.lock.Unlock()
		delete(emitter.listeners, ch)
		close(ch)
	}()
	return ch
}
