// Package handle provides the table that maps opaque handles to captured
// failures.
//
// A captured failure crosses the boundary as a pointer-sized handle rather
// than a Go pointer. The table is the only shared structure in the bridge;
// each handle it hands out is exclusively owned by whichever side currently
// holds it.
//
// # Lifecycle
//
//	table := handle.NewTable()
//
//	// Insert a value, get a handle
//	h := table.Insert(myCapture)
//
//	// Retrieve value by handle
//	value, ok := table.Get(h)
//
//	// Remove and get value (consumption or destruction)
//	value, ok := table.Remove(h)
//
// Handle 0 is reserved and always invalid. Slots are recycled through a free
// list, so a destroyed handle may later name a different value; holding a
// handle past its Remove is a contract violation at the bridge level.
//
// # Observers
//
// Register observers to track lifecycle events, for example to count live
// wrappers in leak tests:
//
//	table.Subscribe(obs) // obs.OnHandleEvent(Event) receives created/dropped
package handle
