package main

import (
	"os"
	"os/signal"
	"path/filepath"

	"github.com/MaaXYZ/maa-framework-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/AtlasScout/AtlasScout/agent/go-service/config"
	"github.com/AtlasScout/AtlasScout/agent/go-service/maabridge"
)

// configEnv overrides the location of config.yaml.
const configEnv = "ATLAS_SCOUT_CONFIG"

func main() {
	cleanup, err := initLogger()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	defer cleanup()

	log.Info().Str("version", Version).Msg("Atlas Scout Agent Service")

	if len(os.Args) < 2 {
		log.Fatal().Msg("Usage: go-service <identifier>")
	}

	identifier := os.Args[1]
	log.Info().Str("identifier", identifier).Msg("Starting agent server")

	cfgPath := os.Getenv(configEnv)
	if cfgPath == "" {
		cfgPath = filepath.Join(getCwd(), "config.yaml")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfgPath).Msg("Failed to load config")
	}

	// MAA DLL 位于工作目录下的 maafw 子目录
	libDir := filepath.Join(getCwd(), "maafw")
	log.Info().Str("libDir", libDir).Msg("Initializing MAA framework")
	if err := maa.Init(maa.WithLibDir(libDir)); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MAA framework")
	}
	defer maa.Release()

	userPath := getCwd()
	if err := maa.ConfigInitOption(userPath, "{}"); err != nil {
		log.Warn().Str("userPath", userPath).Msg("Failed to init toolkit config option")
	}

	svc, err := maabridge.NewService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start atlas scanner")
	}
	defer svc.Close()

	registerAll(svc)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, shutdownSignals...)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received signal, initiating shutdown")
		maa.AgentServerShutDown()
	}()

	if err := maa.AgentServerStartUp(identifier); err != nil {
		log.Fatal().Msg("Failed to start agent server")
	}
	log.Info().Msg("Agent server started")

	maa.AgentServerJoin()

	// idempotent after a signal
	maa.AgentServerShutDown()
	log.Info().Msg("Agent server shutdown complete")
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}
