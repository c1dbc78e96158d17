package logger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once sync.Once
	log  zerolog.Logger
)

// L returns the shared application logger. Level is debug when APP_ENV=dev,
// info otherwise.
func L() *zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
		if os.Getenv("APP_ENV") == "dev" {
			log = log.Level(zerolog.DebugLevel)
		} else {
			log = log.Level(zerolog.InfoLevel)
		}
	})
	return &log
}
