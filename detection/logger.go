package detection

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger returns the detection sub-logger. It is built on demand so that it
// follows the global logger configured in main.
func logger() *zerolog.Logger {
	l := log.With().Str("module", "detection").Logger()
	return &l
}
