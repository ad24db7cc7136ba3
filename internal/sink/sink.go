// Package sink declares the native Sink contract (spec.md §6.3) and ships
// a small in-memory reference implementation useful for tests and for
// embeddings that don't yet have a real actuator wired up.
//
// Grounded on original_source/lib/yggdrasil/src/sink.rs's TreeSink trait
// (add_path/on_ready/values_updated): the engine itself only needs a sink
// *kind* name to group handle_event's output by (internal/tree.SinkUpdate);
// dispatching a kind's updates to a concrete actuator is the embedding's
// job (spec.md §6.3: "the engine does not itself speak any wire protocol").
package sink

import (
	"sync"

	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/tree"
	"github.com/homegraft/hearth/internal/value"
)

// Log is an in-memory sink: it simply remembers the last value delivered
// to each path of a given kind, for use in tests or as a placeholder
// before a real actuator driver is wired in.
type Log struct {
	mu      sync.Mutex
	entries map[string]value.Value
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{entries: make(map[string]value.Value)}
}

// Record stores the latest value delivered to p.
func (l *Log) Record(p path.ConcretePath, v value.Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[p.String()] = v
}

// Last returns the most recent value recorded at p, if any.
func (l *Log) Last(p path.ConcretePath) (value.Value, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.entries[p.String()]
	return v, ok
}

// Apply records every update in a single handle_event group, keyed by
// sink path. Embeddings typically call this once per sink kind returned
// from Engine.HandleEvent.
func (l *Log) Apply(updates []Update) {
	for _, u := range updates {
		l.Record(u.Path, u.Value)
	}
}

// Update is the (path, value) pair an embedding receives for one sink: the
// element type of each group Engine.HandleEvent returns.
type Update = tree.SinkUpdate
