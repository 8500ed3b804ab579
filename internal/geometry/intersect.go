package geometry

// All intersection tests below are strict: shapes that only touch do not
// intersect.

// IntersectCircles reports whether two circles overlap.
func IntersectCircles(a, b Circle) bool {
	r := a.Radius + b.Radius
	return a.Center.DistSq(b.Center) < r*r
}

// IntersectCircleRect reports whether c overlaps r. The circle intersects when
// its center is inside the rectangle or any edge passes within its radius.
func IntersectCircleRect(c Circle, r Rect) bool {
	if PointInRect(c.Center, r) {
		return true
	}
	rr := c.Radius * c.Radius
	corners := r.Corners()
	for i := range corners {
		if SegmentPointDistSq(corners[i], corners[(i+1)%4], c.Center) < rr {
			return true
		}
	}
	return false
}

// IntersectCircleTriangle reports whether c overlaps t.
func IntersectCircleTriangle(c Circle, t Triangle) bool {
	if PointInTriangle(c.Center, t) {
		return true
	}
	rr := c.Radius * c.Radius
	for _, e := range t.Edges() {
		if SegmentPointDistSq(e.Start, e.End, c.Center) < rr {
			return true
		}
	}
	return false
}

// IntersectCircleSegment reports whether s passes strictly within c's radius.
func IntersectCircleSegment(c Circle, s Segment) bool {
	return SegmentPointDistSq(s.Start, s.End, c.Center) < c.Radius*c.Radius
}
