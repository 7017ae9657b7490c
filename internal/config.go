package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host              string        `env:"HOST,required=true"`
	Port              int           `env:"PORT,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,required=true"`
	MinPlayers        int           `env:"MIN_PLAYERS,required=true" validate:"gte=3"`
	RoundsPerGame     int           `env:"ROUNDS_PER_GAME,required=true" validate:"gte=1"`
	RoundDuration     time.Duration `env:"ROUND_DURATION,required=true" validate:"gt=0"`
	ResultsDuration   time.Duration `env:"RESULTS_DURATION,required=true" validate:"gt=0"`
	DisconnectGrace   time.Duration `env:"DISCONNECT_GRACE,required=true" validate:"gt=0"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true" validate:"gt=0"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,required=true" validate:"gt=0"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,required=true" validate:"gt=0"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,required=true" validate:"gt=0"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
