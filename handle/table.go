package handle

import (
	"sync"

	unwindbridge "github.com/wippyai/unwind-bridge"
)

// Event types for wrapper lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

// Event represents a wrapper lifecycle event.
type Event struct {
	Value  any
	Handle unwindbridge.Handle
	Type   EventType
}

// Observer receives notifications about wrapper lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// Table is an in-memory handle table with slot reuse.
// The zero Handle is reserved and never issued.
type Table struct {
	entries   []entry
	freeList  []unwindbridge.Handle
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

type entry struct {
	value any
	valid bool
}

// NewTable creates a new handle table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 16),
		freeList: make([]unwindbridge.Handle, 0, 8),
	}
}

// Insert stores a value and returns its handle.
// Returns 0 if the table is closed.
func (t *Table) Insert(value any) unwindbridge.Handle {
	t.mu.Lock()

	if t.closed {
		t.mu.Unlock()
		return 0
	}

	e := entry{value: value, valid: true}

	var h unwindbridge.Handle
	if n := len(t.freeList); n > 0 {
		h = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
	} else {
		t.entries = append(t.entries, e)
		h = unwindbridge.Handle(len(t.entries))
	}
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Handle: h, Value: value})
	return h
}

// Get retrieves a value by handle.
func (t *Table) Get(h unwindbridge.Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := h - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}

	e := t.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e.value, true
}

// Remove drops an entry and returns (value, true) if it was live.
// The slot becomes reusable immediately.
func (t *Table) Remove(h unwindbridge.Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.Lock()

	idx := h - 1
	if int(idx) >= len(t.entries) {
		t.mu.Unlock()
		return nil, false
	}

	e := &t.entries[idx]
	if !e.valid {
		t.mu.Unlock()
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	t.freeList = append(t.freeList, h)
	t.mu.Unlock()

	t.notify(Event{Type: EventDropped, Handle: h, Value: value})
	return value, true
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, e := range t.entries {
		if e.valid {
			n++
		}
	}
	return n
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Clear drops all live entries.
func (t *Table) Clear() {
	t.mu.RLock()
	var handles []unwindbridge.Handle
	for i, e := range t.entries {
		if e.valid {
			handles = append(handles, unwindbridge.Handle(i+1))
		}
	}
	t.mu.RUnlock()

	for _, h := range handles {
		t.Remove(h)
	}
}

// Close drops all entries and stops accepting inserts.
func (t *Table) Close() error {
	t.Clear()

	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHandleEvent(e)
	}
}
