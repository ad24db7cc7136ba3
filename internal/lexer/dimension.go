package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimension is two dimensioned lengths ("AxB"), used by §6's Location (@)
// and Size (<>) sigils. The engine treats it as opaque data — it is parsed
// here, stored on the node, and never interpreted by the expression engine
// or the dataflow graph.
type Dimension struct {
	Primary   float64
	Secondary float64
}

// ParseDimension parses the "AxB" textual form used by original_source's
// Dimension2::from_str (e.g. "12x34").
func ParseDimension(s string) (Dimension, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return Dimension{}, fmt.Errorf("tokenize error: invalid dimension %q, expected AxB", s)
	}
	a, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Dimension{}, fmt.Errorf("tokenize error: invalid dimension %q: %w", s, err)
	}
	b, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Dimension{}, fmt.Errorf("tokenize error: invalid dimension %q: %w", s, err)
	}
	return Dimension{Primary: a, Secondary: b}, nil
}

func (d Dimension) String() string {
	return fmt.Sprintf("%gx%g", d.Primary, d.Secondary)
}
