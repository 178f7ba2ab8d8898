package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// initLogger sends info and above to the console and everything down to debug
// into a rotating JSON file under ./debug. The returned func closes the file.
func initLogger() (func(), error) {
	debugDir := filepath.Join(".", "debug")
	if err := os.MkdirAll(debugDir, 0755); err != nil {
		return nil, err
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(debugDir, "go-service.log"),
		MaxSize:    10, // MB
		MaxBackups: 3,
		LocalTime:  true,
	}

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	writer := zerolog.MultiLevelWriter(
		levelWriter{w: console, min: zerolog.InfoLevel},
		levelWriter{w: lj, min: zerolog.DebugLevel},
	)

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(writer).With().Timestamp().Caller().Logger()

	return func() {
		if err := lj.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close log file")
		}
	}, nil
}

// levelWriter drops events below min before they reach w.
type levelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (l levelWriter) Write(p []byte) (int, error) {
	return l.w.Write(p)
}

func (l levelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < l.min {
		return len(p), nil
	}
	return l.w.Write(p)
}
