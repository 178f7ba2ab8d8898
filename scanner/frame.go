package scanner

import (
	"errors"
	"image"
)

// ErrNoFrame is returned by frame sources that have nothing to capture, for
// example when the game window is not open.
var ErrNoFrame = errors.New("no frame available")

// Frame is one capture of the game window. Image starts at (0, 0); Window is
// where that image sits on screen.
type Frame struct {
	Image  *image.RGBA
	Window image.Rectangle
}

// ToScreen converts a frame-local point to screen coordinates.
func (f *Frame) ToScreen(p image.Point) image.Point {
	return p.Add(f.Window.Min)
}

// ToLocal converts a screen point to frame-local coordinates.
func (f *Frame) ToLocal(p image.Point) image.Point {
	return p.Sub(f.Window.Min)
}

// FrameSource captures the game window. A nil frame with a nil error is
// treated like ErrNoFrame.
type FrameSource interface {
	Capture() (*Frame, error)
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func() (*Frame, error)

func (f FrameSourceFunc) Capture() (*Frame, error) { return f() }

func capture(src FrameSource) (*Frame, error) {
	frame, err := src.Capture()
	if err != nil {
		return nil, err
	}
	if frame == nil || frame.Image == nil || frame.Image.Bounds().Empty() {
		return nil, ErrNoFrame
	}
	return frame, nil
}
