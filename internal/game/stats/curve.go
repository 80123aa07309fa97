package stats

import (
	"fmt"
	"math"
	"strings"
)

// CurveKind names an XP curve shape.
type CurveKind string

const (
	CurveLinear      CurveKind = "linear"
	CurveQuadratic   CurveKind = "quadratic"
	CurveLogarithmic CurveKind = "logarithmic"
)

// ParseCurveKind resolves a case-insensitive curve name.
//
// Postcondition: Returns one of the CurveKind constants or a non-nil error.
func ParseCurveKind(s string) (CurveKind, error) {
	switch k := CurveKind(strings.ToLower(strings.TrimSpace(s))); k {
	case CurveLinear, CurveQuadratic, CurveLogarithmic:
		return k, nil
	default:
		return "", fmt.Errorf("unknown xp curve %q: must be one of [linear, quadratic, logarithmic]", s)
	}
}

// String returns the curve name.
func (k CurveKind) String() string { return string(k) }

// Curve is a resolved XP curve: a shape plus its coefficient.
type Curve struct {
	Kind        CurveKind
	Coefficient int
}

// XPToNext returns the XP needed to advance from level to level+1.
//
//	linear:      a*L
//	quadratic:   a*L^2
//	logarithmic: round(a*ln(L+1)), half to even
//
// Postcondition: Returns >= 1 so every level stays reachable.
func (c Curve) XPToNext(level int) int {
	var xp int
	switch c.Kind {
	case CurveLinear:
		xp = c.Coefficient * level
	case CurveQuadratic:
		xp = c.Coefficient * level * level
	case CurveLogarithmic:
		xp = int(math.RoundToEven(float64(c.Coefficient) * math.Log(float64(level)+1)))
	}
	return atLeastOne(xp)
}

// XPToNext is the free-function form of Curve.XPToNext.
func XPToNext(level int, c Curve) int {
	return c.XPToNext(level)
}
