package cleanup

import "time"

type Config struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// Cron spec, standard 5-field or descriptors such as "@every 1h".
	Schedule       string        `env:"SCHEDULE" envDefault:"@every 1h"`
	LockAtMostFor  time.Duration `env:"LOCK_AT_MOST_FOR" envDefault:"5m"`
	LockAtLeastFor time.Duration `env:"LOCK_AT_LEAST_FOR" envDefault:"30s"`
}
