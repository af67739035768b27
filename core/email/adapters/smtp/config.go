package smtp

import "time"

type Config struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"Photogram <no-reply@photogram.local>"`

	// TLSPolicy is one of "mandatory", "opportunistic" or "none".
	TLSPolicy string        `env:"TLS_POLICY" envDefault:"opportunistic"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// Messages per second; bursts up to Burst. Zero disables throttling.
	RatePerSecond float64 `env:"RATE_PER_SECOND" envDefault:"5"`
	Burst         int     `env:"BURST" envDefault:"5"`
}
