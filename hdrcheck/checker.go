// Package hdrcheck warns once per session when a display runs with advanced
// colour (HDR). The validator's HSV bands and the template scores are tuned on
// SDR captures.
package hdrcheck

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/MaaXYZ/maa-framework-go/v4"
	"github.com/rs/zerolog/log"
)

//go:embed warning_message.html
var warningHTML string

var _ maa.TaskerEventSink = (*Checker)(nil)

// Checker is a tasker sink that checks for HDR before the first task.
type Checker struct {
	detect func() (bool, error)
	out    io.Writer

	mu     sync.Mutex
	warned bool
}

// NewChecker returns a checker backed by the display configuration API.
func NewChecker() *Checker {
	return &Checker{detect: IsHDREnabled, out: os.Stdout}
}

// Register adds the checker as a tasker sink.
func Register() {
	maa.AgentServerAddTaskerSink(NewChecker())
}

func (c *Checker) OnTaskerTask(_ *maa.Tasker, event maa.EventStatus, detail maa.TaskerTaskDetail) {
	if event != maa.EventStatusStarting {
		return
	}
	c.check(detail.TaskID, detail.Entry)
}

func (c *Checker) check(taskID uint64, entry string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.warned {
		return
	}

	log.Debug().
		Uint64("task_id", taskID).
		Str("entry", entry).
		Msg("Checking HDR status before task execution")

	enabled, err := c.detect()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to check HDR status")
		return
	}
	if !enabled {
		log.Debug().Msg("HDR check passed: HDR is not enabled")
		return
	}

	log.Warn().Msg("HDR is enabled, map colours and template scores may be off")
	// MXU renders stdout lines as HTML.
	fmt.Fprintln(c.out, warningHTML)
	c.warned = true
}
