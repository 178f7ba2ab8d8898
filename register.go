package main

import (
	"github.com/rs/zerolog/log"

	"github.com/AtlasScout/AtlasScout/agent/go-service/hdrcheck"
	"github.com/AtlasScout/AtlasScout/agent/go-service/maabridge"
)

func registerAll(svc *maabridge.Service) {
	maabridge.Register(svc)

	// Tasker sink, warns before the first task if HDR is on.
	hdrcheck.Register()

	log.Info().
		Msg("All custom components and sinks registered successfully")
}
