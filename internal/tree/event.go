package tree

import (
	"fmt"

	"github.com/homegraft/hearth/internal/errs"
	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/value"
)

// SinkUpdate is one (path, value) pair produced by HandleEvent for a
// single observing sink.
type SinkUpdate struct {
	Path  path.ConcretePath
	Value value.Value
}

// HandleEvent is §4.7's runtime entry point: it updates a Source's cached
// value and returns, grouped by sink kind, the freshly computed value at
// every sink that observes it.
//
// It mutates only the Source's cache (§8 testable property 5: "handle_event
// is pure w.r.t. structure"). A compute failure at one observer does not
// stop the others from being computed: every observer is tried, and any
// failures are collected and returned together as an errs.MultiError, so
// one bad script among many sinks doesn't hide the updates the healthy
// sinks would have produced. Per §7 ("errors at runtime abort the current
// handle_event call"), the return value is all-or-nothing even so: when
// any observer fails, result is nil and only the aggregated error comes
// back, discarding the updates the other observers computed.
func (t *Tree) HandleEvent(p path.ConcretePath, v value.Value) (map[string][]SinkUpdate, error) {
	id, err := t.LookupPath(p)
	if err != nil {
		return nil, err
	}
	n := t.nodes[id]
	if n.Input != InputSource {
		return nil, fmt.Errorf("runtime error: %q is not a source", p)
	}

	gen := t.nextGeneration()
	n.cached = taggedValue{value: v, generation: gen, set: true}

	result := make(map[string][]SinkUpdate)
	var failures errs.MultiError
	for _, obsID := range n.Observers {
		val, err := t.ComputeNode(obsID)
		if err != nil {
			failures.Append(err)
			continue
		}
		kind := t.nodes[obsID].SinkKind
		result[kind] = append(result[kind], SinkUpdate{Path: t.Path(obsID), Value: val})
	}
	if err := failures.ErrOrNil(); err != nil {
		return nil, err
	}
	return result, nil
}
