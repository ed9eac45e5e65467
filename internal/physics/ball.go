package physics

import "math"

type Ball struct {
	X, Y   float64
	VX, VY float64
	Active bool
}

func (b *Ball) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}
