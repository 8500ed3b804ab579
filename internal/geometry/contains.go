package geometry

// PointInCircle reports whether p lies in the closed disk c.
func PointInCircle(p Point, c Circle) bool {
	return p.DistSq(c.Center) <= c.Radius*c.Radius
}

// PointInRect reports whether p lies within the closed, normalized bounds of r.
func PointInRect(p Point, r Rect) bool {
	minX, minY, maxX, maxY := r.Bounds()
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

// PointInTriangle reports whether p lies inside t or on its boundary.
// For each edge, p must be on the same side as the opposite vertex.
func PointInTriangle(p Point, t Triangle) bool {
	a, b, c := t.Points[0], t.Points[1], t.Points[2]
	return sameSide(p, a, b, c) &&
		sameSide(p, b, c, a) &&
		sameSide(p, c, a, b)
}

// sameSide reports whether p1 and p2 lie on the same side of the line a-b.
// Points on the line count as either side.
func sameSide(p1, p2, a, b Point) bool {
	ab := b.Sub(a)
	z1 := ab.Cross(p1.Sub(a))
	z2 := ab.Cross(p2.Sub(a))
	return z1*z2 >= 0
}

// SegmentPointDistSq returns the squared distance from p3 to the segment p1-p2.
// A zero-length segment degrades to the distance from p3 to p1.
func SegmentPointDistSq(p1, p2, p3 Point) float64 {
	d := p2.Sub(p1)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return p3.DistSq(p1)
	}

	u := p3.Sub(p1).Dot(d) / lenSq
	switch {
	case u <= 0:
		return p3.DistSq(p1)
	case u >= 1:
		return p3.DistSq(p2)
	}
	return p3.DistSq(p1.Add(d.Scale(u)))
}
