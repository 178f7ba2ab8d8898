package maabridge

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func logger() *zerolog.Logger {
	l := log.With().Str("module", "maabridge").Logger()
	return &l
}
