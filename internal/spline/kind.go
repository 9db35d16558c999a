package spline

import (
	"fmt"
	"strings"
)

// Kind selects the interpolation used by At.
type Kind int

const (
	Linear Kind = iota
	Cardinal
	BSpline
)

// Kinds lists every kind in UI order.
var Kinds = []Kind{Linear, Cardinal, BSpline}

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Cardinal:
		return "cardinal"
	case BSpline:
		return "bspline"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Next cycles through Kinds.
func (k Kind) Next() Kind {
	return Kinds[(int(k)+1)%len(Kinds)]
}

// ParseKind accepts the String() names plus a few common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "line":
		return Linear, nil
	case "cardinal", "catmull-rom", "catmullrom":
		return Cardinal, nil
	case "bspline", "b-spline":
		return BSpline, nil
	}
	return Linear, fmt.Errorf("spline: unknown kind %q", s)
}
