// Package source declares the native Source contract (spec.md §6.3) as a
// Kind value and ships a few ready-made Kind declarations. Real embeddings
// (a lighting bridge, a button gateway) declare their own Kinds the same
// way and push events through HandleEvent; spec.md places those out of
// scope for the engine itself.
//
// Grounded on original_source/lib/yggdrasil/src/source.rs's TreeSource
// trait (add_path/nodetype/get_all_possible_values/handle_event/
// get_value), simplified to a per-kind static declaration since this
// engine's sources are homogeneous per kind (see internal/tree's
// RegisterSourceKind doc comment).
package source

import "github.com/homegraft/hearth/internal/value"

// Kind is the builder-facing declaration for one Source kind: its name,
// the ValueType it produces, and the full domain of values it might ever
// take (used by devirtualize before any runtime event exists).
type Kind struct {
	Name     string
	Type     value.Type
	Possible []value.Value
}

// Clock declares a time-of-day source kind whose values are whole seconds
// since midnight, as an Integer. It only declares the kind; it does not
// poll a clock or push events itself. Possible values are declared across a full day's
// range so devirtualizing a lookup against it never starves for branches;
// embeddings needing exact coverage should push events for the concrete
// value they expect a dependent script to react to.
func Clock() Kind {
	possible := make([]value.Value, 0, 86400)
	for s := 0; s < 86400; s++ {
		possible = append(possible, value.Int(int64(s)))
	}
	return Kind{Name: "clock", Type: value.TypeInteger, Possible: possible}
}

// Switch is a two-state boolean source (a button, a toggle).
func Switch() Kind {
	return Kind{Name: "switch", Type: value.TypeBoolean, Possible: []value.Value{value.Bool(true), value.Bool(false)}}
}

// Named is a string-valued source whose possible values are an explicit,
// caller-supplied set of names (e.g. "which room's motion sensor fired").
func Named(kind string, names ...string) Kind {
	possible := make([]value.Value, len(names))
	for i, n := range names {
		possible[i] = value.Str(n)
	}
	return Kind{Name: kind, Type: value.TypeString, Possible: possible}
}
