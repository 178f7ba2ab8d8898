package catalog

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func logger() *zerolog.Logger {
	l := log.With().Str("module", "catalog").Logger()
	return &l
}
