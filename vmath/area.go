package vmath

// Rect is an axis-aligned bounding box in canvas units
type Rect struct {
	Left, Right, Top, Bottom float64
}

// RectFromCenter builds a box from a centre point and full width/height
func RectFromCenter(cx, cy, w, h float64) Rect {
	return Rect{
		Left:   cx - w/2,
		Right:  cx + w/2,
		Top:    cy - h/2,
		Bottom: cy + h/2,
	}
}

// SquareAround returns the bounding square of a circle
func SquareAround(cx, cy, radius float64) Rect {
	return Rect{
		Left:   cx - radius,
		Right:  cx + radius,
		Top:    cy - radius,
		Bottom: cy + radius,
	}
}

// Overlaps reports strict overlap; touching edges do not overlap
func (r Rect) Overlaps(o Rect) bool {
	return r.Right > o.Left && r.Left < o.Right &&
		r.Bottom > o.Top && r.Top < o.Bottom
}

// Contains checks if point is within the box, edges inclusive
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Expand grows the box by margin on every side
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Left:   r.Left - margin,
		Right:  r.Right + margin,
		Top:    r.Top - margin,
		Bottom: r.Bottom + margin,
	}
}

// Penetration holds the depth a moving box r has entered o from each side of o
type Penetration struct {
	Left, Right, Top, Bottom float64
}

// PenetrationInto computes per-face overlap depths of r inside o
// Left is measured from o's left face (r entering from the left), and so on
func (r Rect) PenetrationInto(o Rect) Penetration {
	return Penetration{
		Left:   r.Right - o.Left,
		Right:  o.Right - r.Left,
		Top:    r.Bottom - o.Top,
		Bottom: o.Bottom - r.Top,
	}
}
