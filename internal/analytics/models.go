package analytics

type PlayerStats struct {
	Username     string  `json:"username"`
	RoundsPlayed int     `json:"roundsPlayed"`
	RoundsWon    int     `json:"roundsWon"`
	JackpotHits  int     `json:"jackpotHits"`
	TotalAwarded int     `json:"totalAwarded"`
	BestScore    int     `json:"bestScore"`
	HitRate      float64 `json:"hitRate"` // percentage of correct predictions
	Badges       []Badge `json:"badges"`
}

// BucketLandings counts how often balls finished in one bucket.
type BucketLandings struct {
	Bucket   int     `json:"bucket"`
	Landings int     `json:"landings"`
	Share    float64 `json:"share"`
}
