package geometry

// RotateTriangle rotates every vertex of t about the world origin (0, 0),
// not about the triangle's centroid.
func RotateTriangle(t Triangle, phi float64) Triangle {
	m := Rotate(phi)
	for i := range t.Points {
		t.Points[i] = m.Apply(t.Points[i])
	}
	return t
}

// MoveTriangle translates every vertex of t by v.
func MoveTriangle(t Triangle, v Vector) Triangle {
	for i := range t.Points {
		t.Points[i] = t.Points[i].Add(v)
	}
	return t
}

// MoveRect translates the anchor of r by v.
func MoveRect(r Rect, v Vector) Rect {
	r.X += v.X
	r.Y += v.Y
	return r
}

// MoveCircle translates the center of c by v.
func MoveCircle(c Circle, v Vector) Circle {
	c.Center = c.Center.Add(v)
	return c
}

// TransformTriangle applies m to every vertex of t.
func TransformTriangle(t Triangle, m Matrix2D) Triangle {
	for i := range t.Points {
		t.Points[i] = m.Apply(t.Points[i])
	}
	return t
}
