// Package badge keeps the unread price-alert count shown to users.
package badge

import "sync"

// Emitter is an observable counter. One instance is created by the
// application root and handed to every component that changes or shows the
// count. Each user acknowledges the count separately.
type Emitter struct {
	mu        sync.Mutex
	count     int
	seen      map[string]int
	nextID    int
	listeners map[int]func(count int)
}

// New creates an Emitter with a zero count.
func New() *Emitter {
	return &Emitter{seen: make(map[string]int), listeners: make(map[int]func(int))}
}

// Unseen returns how much the count grew since user last called MarkSeen.
func (e *Emitter) Unseen(user string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.count - e.seen[user]
}

// MarkSeen acknowledges the current count for user and returns how many
// alerts were unseen until now.
func (e *Emitter) MarkSeen(user string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	unseen := e.count - e.seen[user]
	e.seen[user] = e.count

	return unseen
}

// Add increases the count by n and notifies listeners. Non-positive n is ignored.
func (e *Emitter) Add(n int) {
	if n <= 0 {
		return
	}

	e.mu.Lock()
	e.count += n
	count, fns := e.count, e.snapshot()
	e.mu.Unlock()

	notify(fns, count)
}

// Subscribe registers fn to be called with the new count after every change.
// The returned function removes the listener.
func (e *Emitter) Subscribe(fn func(count int)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.listeners[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// snapshot must be called with e.mu held.
func (e *Emitter) snapshot() []func(int) {
	fns := make([]func(int), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func(int), count int) {
	for _, fn := range fns {
		fn(count)
	}
}
