// Package subprocess bridges push-based byte streams to converter processes.
//
// A Stream spawns its converter lazily on the first write, replays input
// buffered during binary resolution, relays stdout as data events, and ends
// with exactly one end or error event. It handles process lifecycle
// management, backpressure through Pause and Resume, and cleanup.
package subprocess
