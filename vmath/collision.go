package vmath

// BounceNegative returns -|v|*restitution, used when pushed toward the negative axis
// restitution: 0 = dead stop, 1 = perfect bounce
func BounceNegative(v, restitution float64) float64 {
	if v < 0 {
		v = -v
	}
	return -v * restitution
}

// BouncePositive returns |v|*restitution, used when pushed toward the positive axis
func BouncePositive(v, restitution float64) float64 {
	if v < 0 {
		v = -v
	}
	return v * restitution
}

// CirclesOverlap reports whether two circles intersect with strict inequality
// Circles whose centres are exactly radius-sum apart do not overlap
func CirclesOverlap(ax, ay, ar, bx, by, br float64) bool {
	return Distance(ax, ay, bx, by) < ar+br
}
