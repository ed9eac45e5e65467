package physics

import "math"

// Step advances b by one tick through the field. It reports the landing
// bucket once the ball crosses the floor; the ball is deactivated then.
// An inactive ball is left untouched.
func (f *Field) Step(b *Ball, rng Rand) (bucket int, landed bool) {
	if !b.Active {
		return 0, false
	}
	t := f.Tuning

	b.VY += t.Gravity
	b.VX *= t.Friction
	b.VY *= t.Friction

	if speed := b.Speed(); speed > t.MaxSpeed {
		scale := t.MaxSpeed / speed
		b.VX *= scale
		b.VY *= scale
	}

	b.X += b.VX
	b.Y += b.VY

	if b.X < t.BallRadius {
		b.X = t.BallRadius
		b.VX = -b.VX * t.WallBounce
	} else if b.X > t.Width-t.BallRadius {
		b.X = t.Width - t.BallRadius
		b.VX = -b.VX * t.WallBounce
	}

	// Pegs are resolved in order; when the ball overlaps several at once a
	// later peg's correction wins.
	minDist := t.BallRadius + t.PegRadius
	for _, p := range f.Pegs {
		dx := b.X - p.X
		dy := b.Y - p.Y
		dist := math.Hypot(dx, dy)
		if dist >= minDist {
			continue
		}

		nx, ny := 0.0, -1.0
		if dist > 0 {
			nx, ny = dx/dist, dy/dist
		}
		speed := b.Speed() * t.BounceDamping
		b.VX = nx*speed + jitter(rng, t.CollideJitter)
		b.VY = ny * speed

		overlap := minDist - dist
		b.X += nx * overlap
		b.Y += ny * overlap
	}

	if b.Y > t.FloorY() {
		b.Active = false
		return LandingBucket(b.X, t.Width, len(f.Buckets)), true
	}
	return 0, false
}

// LandingBucket maps a horizontal position to a bucket index in [0, n-1].
// Positions outside the field clamp to the edge buckets.
func LandingBucket(x, width float64, n int) int {
	if n <= 0 {
		return 0
	}
	idx := math.Floor(x / (width / float64(n)))
	if !(idx > 0) {
		return 0
	}
	if idx > float64(n-1) {
		return n - 1
	}
	return int(idx)
}
