package runtime

import "time"

// Settings are the game-pacing knobs of the engine. Zero values are
// not usable; start from DefaultSettings.
type Settings struct {
	MinPlayers      int
	RoundsPerGame   int
	RoundDuration   time.Duration
	ResultsDuration time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		MinPlayers:      3,
		RoundsPerGame:   10,
		RoundDuration:   30 * time.Second,
		ResultsDuration: 5 * time.Second,
	}
}
