package shape

import (
	"errors"
	"fmt"

	"github.com/inamate/inamate/shapes-go/internal/geometry"
)

// ErrPairUnimplemented is returned by IntersectsWith for kind pairs that have
// no intersection routine. Only pairs involving a circle are implemented.
var ErrPairUnimplemented = errors.New("intersection not implemented for this shape-kind pair")

type pairTest func(a, b *Shape) bool

// Every implemented pair pivots on a circle: the non-circle side (or either
// side, for two circles) answers whether the circle intersects it.
var pairTests = [numKinds][numKinds]pairTest{
	KindCircle: {
		KindCircle:   circleFirst,
		KindRect:     circleFirst,
		KindTriangle: circleFirst,
	},
	KindRect: {
		KindCircle: circleSecond,
	},
	KindTriangle: {
		KindCircle: circleSecond,
	},
}

func circleFirst(a, b *Shape) bool  { return b.IntersectsCircle(a.EffectiveCircle()) }
func circleSecond(a, b *Shape) bool { return a.IntersectsCircle(b.EffectiveCircle()) }

// IntersectsWith reports whether the effective geometries of s and other
// overlap. Neither shape is modified. Pairs without a circle fail with
// ErrPairUnimplemented.
func (s *Shape) IntersectsWith(other *Shape) (bool, error) {
	test := pairTests[s.kind][other.kind]
	if test == nil {
		return false, fmt.Errorf("%w: %s-%s", ErrPairUnimplemented, s.kind, other.kind)
	}
	return test(s, other), nil
}

// IntersectsCircle reports whether circle c overlaps the effective geometry of s.
// Every kind implements this.
func (s *Shape) IntersectsCircle(c geometry.Circle) bool {
	switch s.kind {
	case KindCircle:
		return geometry.IntersectCircles(c, s.EffectiveCircle())
	case KindRect:
		return geometry.IntersectCircleRect(c, s.EffectiveRect())
	case KindTriangle:
		return geometry.IntersectCircleTriangle(c, s.EffectiveTriangle())
	}
	return false
}

// Implemented reports whether IntersectsWith has a routine for the pair.
func Implemented(a, b Kind) bool {
	if a < 0 || a >= numKinds || b < 0 || b >= numKinds {
		return false
	}
	return pairTests[a][b] != nil
}
