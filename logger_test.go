package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevelWriterFiltersBelowMin(t *testing.T) {
	var buf bytes.Buffer
	w := levelWriter{w: &buf, min: zerolog.InfoLevel}
	l := zerolog.New(zerolog.MultiLevelWriter(w))

	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
