package gamedata

import "plinkomarket/internal/physics"

// Engine is the physics a Game drives, one Step per frame.
type Engine interface {
	Field() *physics.Field
	Spawn() physics.Ball
	Step(b *physics.Ball) (bucket int, landed bool)
}

type fieldEngine struct {
	field *physics.Field
	rng   physics.Rand
}

// NewEngine binds a field to the random source used for spawn and bounce jitter.
// The source is only used from the owning game's frame loop.
func NewEngine(field *physics.Field, rng physics.Rand) Engine {
	return &fieldEngine{field: field, rng: rng}
}

func (e *fieldEngine) Field() *physics.Field {
	return e.field
}

func (e *fieldEngine) Spawn() physics.Ball {
	return e.field.Spawn(e.rng)
}

func (e *fieldEngine) Step(b *physics.Ball) (int, bool) {
	return e.field.Step(b, e.rng)
}
