package gamedata

import "plinkomarket/internal/physics"

type Highlight string

const (
	HighlightNone     = Highlight("none")
	HighlightSelected = Highlight("selected")
	HighlightWinning  = Highlight("winning")
)

type BallView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type BucketView struct {
	Index     int       `json:"index"`
	Reward    int       `json:"reward"`
	Highlight Highlight `json:"highlight"`
}

type Outcome struct {
	Prediction int  `json:"prediction"`
	Landed     int  `json:"landed"`
	Award      int  `json:"award"`
	Won        bool `json:"won"`
}

// Snapshot is the read-only view a renderer paints from.
type Snapshot struct {
	Scene       Scene         `json:"scene"`
	Username    string        `json:"username"`
	Score       int           `json:"score"`
	Lives       int           `json:"lives"`
	Ball        *BallView     `json:"ball,omitempty"`
	Pegs        []physics.Peg `json:"pegs"`
	Buckets     []BucketView  `json:"buckets"`
	LastOutcome *Outcome      `json:"lastOutcome,omitempty"`
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
}

// Frame is the per-tick update pushed while a ball is in flight.
type Frame struct {
	Tick   int      `json:"tick"`
	Ball   BallView `json:"ball"`
	Active bool     `json:"active"`
	Scene  Scene    `json:"scene"`
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	field := g.engine.Field()
	snap := Snapshot{
		Scene:    g.scene,
		Username: g.username,
		Score:    g.score,
		Lives:    g.lives,
		Pegs:     append([]physics.Peg(nil), field.Pegs...),
		Width:    field.Tuning.Width,
		Height:   field.Tuning.Height,
	}

	selected, winning := -1, -1
	if g.round != nil {
		selected = g.round.Prediction
		if g.round.Ball.Active {
			snap.Ball = &BallView{X: g.round.Ball.X, Y: g.round.Ball.Y}
		}
	}
	if g.last != nil {
		selected = g.last.Prediction
		if g.last.Won() {
			winning = g.last.Outcome
		}
		snap.LastOutcome = &Outcome{
			Prediction: g.last.Prediction,
			Landed:     g.last.Outcome,
			Award:      g.last.Award,
			Won:        g.last.Won(),
		}
	}

	for _, b := range field.Buckets {
		h := HighlightNone
		switch b.Index {
		case winning:
			h = HighlightWinning
		case selected:
			h = HighlightSelected
		}
		snap.Buckets = append(snap.Buckets, BucketView{Index: b.Index, Reward: b.Reward, Highlight: h})
	}
	return snap
}

func (g *Game) frameLocked(r *Round) Frame {
	return Frame{
		Tick:   r.Ticks,
		Ball:   BallView{X: r.Ball.X, Y: r.Ball.Y},
		Active: r.Ball.Active,
		Scene:  g.scene,
	}
}
