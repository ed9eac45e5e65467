package physics

// Tuning holds the constants of one play field. Distances are in canvas
// pixels, velocities in pixels per tick.
type Tuning struct {
	Width  float64
	Height float64

	Gravity       float64
	Friction      float64 // per-tick velocity multiplier
	BounceDamping float64 // speed kept after a peg hit
	WallBounce    float64 // restitution against the side walls
	MaxSpeed      float64

	BallRadius float64
	PegRadius  float64

	PegRows       int
	PegSpacing    float64
	RowSpacing    float64
	TopMargin     float64
	PegJitter     float64
	CollideJitter float64

	SpawnSpread float64
	SpawnSpeed  float64

	BucketHeight  float64
	BucketRewards []int
}

func DefaultTuning() Tuning {
	return Tuning{
		Width:  400,
		Height: 500,

		Gravity:       0.2,
		Friction:      0.99,
		BounceDamping: 0.6,
		WallBounce:    0.5,
		MaxSpeed:      15,

		BallRadius: 6,
		PegRadius:  4,

		PegRows:       10,
		PegSpacing:    40,
		RowSpacing:    36,
		TopMargin:     60,
		PegJitter:     2,
		CollideJitter: 0.5,

		SpawnSpread: 20,
		SpawnSpeed:  1,

		BucketHeight:  40,
		BucketRewards: []int{50, 200, 1000, 200, 50},
	}
}

// FloorY is the vertical threshold past which a ball counts as landed.
func (t Tuning) FloorY() float64 {
	return t.Height - t.BucketHeight
}

func (t Tuning) BucketWidth() float64 {
	return t.Width / float64(len(t.BucketRewards))
}
