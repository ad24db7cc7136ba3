package tree

import (
	"sort"

	"github.com/homegraft/hearth/internal/flow"
	"github.com/homegraft/hearth/log"
)

// FlowMap is the second compile pass (§4.8 "flow mapping"): it builds the
// C9 dataflow graph from every Script's linked input map, then stores, on
// each Source node, the set of Sink nodes reachable from it through that
// graph. LinkAndValidate must have already run so every Script's input
// map is populated.
func (t *Tree) FlowMap() error {
	g := flow.New()
	pathIndex := make(map[string]NodeID)
	t.walk(t.Root(), func(id NodeID) {
		p := t.Path(id).String()
		pathIndex[p] = id
		g.AddNode(p)
	})

	for p, id := range pathIndex {
		if !t.IsScript(id) {
			continue
		}
		for _, in := range t.ScriptInputs(id) {
			if err := g.AddEdge(in.String(), p); err != nil {
				return err
			}
		}
	}

	var allSinks []string
	for p, id := range pathIndex {
		if t.nodes[id].SinkKind != "" {
			allSinks = append(allSinks, p)
		}
	}
	sort.Strings(allSinks)

	for p, id := range pathIndex {
		if !t.IsSource(id) {
			continue
		}
		reachable, err := g.ConnectedNodes(p, allSinks)
		if err != nil {
			return err
		}
		observers := make([]NodeID, 0, len(reachable))
		for _, r := range reachable {
			observers = append(observers, pathIndex[r])
		}
		t.nodes[id].Observers = observers
		if len(observers) == 0 {
			log.Warn("source %q has no observers", p)
		}
	}
	return nil
}
