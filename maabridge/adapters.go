package maabridge

import (
	"errors"
	"fmt"
	"image"
	"path"
	"strings"
	"sync"

	"github.com/MaaXYZ/maa-framework-go/v4"

	"github.com/AtlasScout/AtlasScout/agent/go-service/activity"
	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/imgutil"
	"github.com/AtlasScout/AtlasScout/agent/go-service/scanner"
)

// controllerFrames captures through the bound controller. Frames are in
// controller space, so Window starts at the origin.
type controllerFrames struct {
	bind *binding

	mu   sync.Mutex
	last image.Point
}

func (f *controllerFrames) Capture() (*scanner.Frame, error) {
	ctrl, err := f.bind.controller()
	if err != nil {
		return nil, err
	}
	ctrl.PostScreencap().Wait()
	img, err := ctrl.CacheImage()
	if err != nil {
		return nil, fmt.Errorf("cache image: %w", err)
	}
	if img == nil {
		return nil, scanner.ErrNoFrame
	}

	rgba := imgutil.EnsureRGBA(img)
	f.mu.Lock()
	f.last = rgba.Bounds().Size()
	f.mu.Unlock()
	return &scanner.Frame{Image: rgba, Window: rgba.Bounds()}, nil
}

// lastSize returns the size of the most recent capture.
func (f *controllerFrames) lastSize() image.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Cursor reads and moves the system cursor in screen coordinates.
type Cursor interface {
	Position() (image.Point, error)
	MoveTo(p image.Point) error
}

// WindowLocator returns the game client area in screen coordinates.
type WindowLocator interface {
	ClientRect() (image.Rectangle, error)
}

// controllerPointer reads the position from the system cursor, mapped into
// controller space. It moves through the controller's touch input, or glides
// the system cursor when smooth is set.
type controllerPointer struct {
	bind   *binding
	frames *controllerFrames
	cursor Cursor
	window WindowLocator
	smooth bool
}

var errMoveFailed = errors.New("touch move did not complete")

func (p *controllerPointer) MoveTo(pt image.Point) error {
	if p.smooth {
		return p.glide(pt)
	}
	ctrl, err := p.bind.controller()
	if err != nil {
		return err
	}
	if !ctrl.PostTouchMove(0, int32(pt.X), int32(pt.Y), 1).Wait().Done() {
		return fmt.Errorf("move to (%d, %d): %w", pt.X, pt.Y, errMoveFailed)
	}
	return nil
}

func (p *controllerPointer) glide(pt image.Point) error {
	client, err := p.window.ClientRect()
	if err != nil {
		return fmt.Errorf("locate window: %w", err)
	}
	target := frameToClient(pt, client, p.frames.lastSize())
	if err := p.cursor.MoveTo(target); err != nil {
		return fmt.Errorf("move cursor to (%d, %d): %w", target.X, target.Y, err)
	}
	return nil
}

func (p *controllerPointer) Position() (image.Point, error) {
	cursor, err := p.cursor.Position()
	if err != nil {
		return image.Point{}, fmt.Errorf("read cursor: %w", err)
	}
	client, err := p.window.ClientRect()
	if err != nil {
		return image.Point{}, fmt.Errorf("locate window: %w", err)
	}
	return clientToFrame(cursor, client, p.frames.lastSize()), nil
}

// clientToFrame maps a screen point inside client into a frame of the given
// size. The controller may capture at a lower resolution than the window.
func clientToFrame(pt image.Point, client image.Rectangle, size image.Point) image.Point {
	local := pt.Sub(client.Min)
	if size.X <= 0 || size.Y <= 0 || client.Dx() <= 0 || client.Dy() <= 0 {
		return local
	}
	return image.Pt(
		local.X*size.X/client.Dx(),
		local.Y*size.Y/client.Dy(),
	)
}

// frameToClient is the inverse of clientToFrame.
func frameToClient(pt image.Point, client image.Rectangle, size image.Point) image.Point {
	if size.X <= 0 || size.Y <= 0 || client.Dx() <= 0 || client.Dy() <= 0 {
		return pt.Add(client.Min)
	}
	return client.Min.Add(image.Pt(
		pt.X*client.Dx()/size.X,
		pt.Y*client.Dy()/size.Y,
	))
}

// pipelineOCR runs an OCR pipeline node over the whole image it is given.
type pipelineOCR struct {
	bind *binding
	node string
}

func (o *pipelineOCR) Recognize(img image.Image) (string, error) {
	ctx, err := o.bind.context()
	if err != nil {
		return "", err
	}
	b := img.Bounds()
	override := map[string]any{
		o.node: map[string]any{
			"roi": maa.Rect{0, 0, b.Dx(), b.Dy()},
		},
	}
	detail, err := ctx.RunRecognition(o.node, imgutil.EnsureRGBA(img), override)
	if err != nil {
		return "", fmt.Errorf("run %s: %w", o.node, err)
	}
	if detail == nil || detail.Results == nil {
		return "", nil
	}

	var lines []string
	for _, r := range detail.Results.All {
		if r == nil {
			continue
		}
		if text, ok := r.AsOCR(); ok {
			if t := strings.TrimSpace(text.Text); t != "" {
				lines = append(lines, t)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// templateMatchCCoeffNormed selects TM_CCOEFF_NORMED in a TemplateMatch node.
const templateMatchCCoeffNormed = 5

// pipelineMatcher asks the framework's TemplateMatch whether an activity icon
// is in a region. Icons are looked up as <dir>/<name>.png under the resource
// image folder.
type pipelineMatcher struct {
	bind *binding
	dir  string
}

func (m *pipelineMatcher) Match(region image.Image, icon activity.Icon, threshold float64) (bool, error) {
	ctx, err := m.bind.context()
	if err != nil {
		return false, err
	}
	template := path.Join(m.dir, icon.Name+".png")
	detail, err := ctx.RunRecognitionDirect(maa.RecognitionTypeTemplateMatch, maa.TemplateMatchParam{
		Template:  []string{template},
		Threshold: []float64{threshold},
		Method:    templateMatchCCoeffNormed,
	}, imgutil.EnsureRGBA(region))
	if err != nil {
		return false, fmt.Errorf("template match %s: %w", template, err)
	}
	return detail != nil && detail.Hit, nil
}
