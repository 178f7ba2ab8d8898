// Package winapi reads the game window rectangle and drives the system cursor.
package winapi

import (
	"errors"
	"image"
	"time"
)

var (
	// ErrWindowNotFound means no top-level window has the requested title.
	ErrWindowNotFound = errors.New("window not found")
	// ErrUnsupported is returned on platforms without a Win32 API.
	ErrUnsupported = errors.New("win32 api not supported on this platform")
)

// DefaultWindowTitle is the title of the game client window.
const DefaultWindowTitle = "Path of Exile 2"

// Window locates a top-level window by title.
type Window struct {
	Title string
}

// ClientRect returns the window's client area in screen coordinates.
func (w Window) ClientRect() (image.Rectangle, error) {
	title := w.Title
	if title == "" {
		title = DefaultWindowTitle
	}
	return clientRect(title)
}

const (
	defaultSteps    = 20
	defaultInterval = 10 * time.Millisecond
)

// Cursor moves the system cursor. With Smooth set, MoveTo glides there in
// Steps increments, pausing Interval between them.
type Cursor struct {
	Smooth   bool
	Steps    int
	Interval time.Duration

	get   func() (image.Point, error)
	set   func(image.Point) error
	sleep func(time.Duration)
}

// NewCursor returns a cursor bound to the system pointer.
func NewCursor(smooth bool) *Cursor {
	return &Cursor{
		Smooth:   smooth,
		Steps:    defaultSteps,
		Interval: defaultInterval,
		get:      cursorPos,
		set:      setCursorPos,
		sleep:    time.Sleep,
	}
}

// Position returns the cursor in screen coordinates.
func (c *Cursor) Position() (image.Point, error) {
	return c.get()
}

// MoveTo places the cursor at p in screen coordinates.
func (c *Cursor) MoveTo(p image.Point) error {
	if !c.Smooth || c.Steps <= 1 {
		return c.set(p)
	}

	from, err := c.get()
	if err != nil {
		return err
	}
	dx := float64(p.X-from.X) / float64(c.Steps)
	dy := float64(p.Y-from.Y) / float64(c.Steps)
	for i := 1; i <= c.Steps; i++ {
		step := image.Pt(
			int(float64(from.X)+dx*float64(i)),
			int(float64(from.Y)+dy*float64(i)),
		)
		if err := c.set(step); err != nil {
			return err
		}
		c.sleep(c.Interval)
	}
	return nil
}
