package physics

// Rand is the source of jitter. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type Peg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Bucket struct {
	Index  int `json:"index"`
	Reward int `json:"reward"`
}

// Field is the static part of the board. It is built once and only read
// afterwards, so a single Field can back every round of a session.
type Field struct {
	Tuning  Tuning
	Pegs    []Peg
	Buckets []Bucket
}

func NewField(t Tuning, rng Rand) *Field {
	f := &Field{Tuning: t}

	cols := int(t.Width / t.PegSpacing)
	for row := 0; row < t.PegRows; row++ {
		n := cols
		offset := t.PegSpacing / 2
		if row%2 == 1 {
			n = cols - 1
			offset = t.PegSpacing
		}
		y := t.TopMargin + float64(row)*t.RowSpacing
		for col := 0; col < n; col++ {
			x := offset + float64(col)*t.PegSpacing + jitter(rng, t.PegJitter)
			f.Pegs = append(f.Pegs, Peg{X: x, Y: y})
		}
	}

	for i, reward := range t.BucketRewards {
		f.Buckets = append(f.Buckets, Bucket{Index: i, Reward: reward})
	}
	return f
}

func (f *Field) BucketCount() int {
	return len(f.Buckets)
}

// Reward returns the bucket's value, or 0 for an index outside the row.
func (f *Field) Reward(bucket int) int {
	if bucket < 0 || bucket >= len(f.Buckets) {
		return 0
	}
	return f.Buckets[bucket].Reward
}

// Spawn places a new ball at the top, a little off centre, drifting sideways.
func (f *Field) Spawn(rng Rand) Ball {
	t := f.Tuning
	return Ball{
		X:      t.Width/2 + jitter(rng, t.SpawnSpread/2),
		Y:      0,
		VX:     jitter(rng, t.SpawnSpeed/2),
		VY:     0,
		Active: true,
	}
}

// jitter returns a symmetric random offset in [-amp, amp).
func jitter(rng Rand, amp float64) float64 {
	return (rng.Float64()*2 - 1) * amp
}
