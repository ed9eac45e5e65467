package analytics

type BadgeID string

const (
	BadgeOracle     BadgeID = "oracle"
	BadgeSharpEye   BadgeID = "sharp_eye"
	BadgeHighRoller BadgeID = "high_roller"
	BadgeVeteran    BadgeID = "veteran"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

var AllBadges = map[BadgeID]Badge{
	BadgeOracle:     {ID: BadgeOracle, Name: "Oracle", Description: "Called the jackpot bucket"},
	BadgeSharpEye:   {ID: BadgeSharpEye, Name: "Sharp Eye", Description: "50%+ correct predictions over 9+ rounds"},
	BadgeHighRoller: {ID: BadgeHighRoller, Name: "High Roller", Description: "2000+ points in a single game"},
	BadgeVeteran:    {ID: BadgeVeteran, Name: "Veteran", Description: "Played 30+ rounds"},
}

const (
	sharpEyeMinRounds = 9
	highRollerScore   = 2000
	veteranRounds     = 30
)

// EvaluateBadges lists the badges a player's history has earned, in a stable order.
func EvaluateBadges(stats PlayerStats) []Badge {
	earned := []Badge{}

	if stats.JackpotHits > 0 {
		earned = append(earned, AllBadges[BadgeOracle])
	}

	if stats.RoundsPlayed >= sharpEyeMinRounds && stats.HitRate >= 50.0 {
		earned = append(earned, AllBadges[BadgeSharpEye])
	}

	if stats.BestScore >= highRollerScore {
		earned = append(earned, AllBadges[BadgeHighRoller])
	}

	if stats.RoundsPlayed >= veteranRounds {
		earned = append(earned, AllBadges[BadgeVeteran])
	}

	return earned
}
