// Package recorder captures a screenshot after every page-object step and
// turns the run into an annotated GIF.
package recorder

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/v0xg/contactcheck/internal/console"
	"github.com/v0xg/contactcheck/internal/gifgen"
	"github.com/v0xg/contactcheck/internal/overlay"
)

// Frame is one captured step
type Frame struct {
	Step   string
	Image  image.Image
	Cursor overlay.Cursor
}

// Screenshotter captures the current viewport as an encoded image.
type Screenshotter interface {
	Screenshot(fullPage bool, req *proto.PageCaptureScreenshot) ([]byte, error)
}

// Recorder implements contactpage.StepObserver.
type Recorder struct {
	page   Screenshotter
	log    console.Logger
	center func(*rod.Element) (int, int, error)

	mu     sync.Mutex
	frames []Frame
	failed int
}

func New(page Screenshotter, log console.Logger) *Recorder {
	if log == nil {
		log = console.NullLogger()
	}
	return &Recorder{page: page, log: log, center: elementCenter}
}

// Step records the page after an interaction. Capture failures are logged
// and counted but never interrupt the run.
func (r *Recorder) Step(name string, target *rod.Element) {
	cursor := overlay.Cursor{State: overlay.CursorNone}
	if target != nil {
		if x, y, err := r.center(target); err == nil {
			cursor = cursorFor(name, x, y)
		}
	}
	r.capture(name, cursor)
}

func (r *Recorder) capture(name string, cursor overlay.Cursor) {
	img, err := captureFrame(r.page)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.failed++
		r.log.Printf("capture %q failed: %v", name, err)
		return
	}
	r.frames = append(r.frames, Frame{Step: name, Image: img, Cursor: cursor})
}

func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Failed is how many captures were dropped.
func (r *Recorder) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// Save overlays the cursors and writes the GIF, returning its size.
func (r *Recorder) Save(path string, opts gifgen.Options) (int64, error) {
	frames := r.Frames()
	images := make([]image.Image, len(frames))
	cursors := make([]overlay.Cursor, len(frames))
	for i, f := range frames {
		images[i] = f.Image
		cursors[i] = f.Cursor
	}
	annotated, err := overlay.Apply(images, cursors)
	if err != nil {
		return 0, fmt.Errorf("overlay failed: %w", err)
	}
	size, err := gifgen.Generate(annotated, path, opts)
	if err != nil {
		return 0, fmt.Errorf("GIF generation failed: %w", err)
	}
	return size, nil
}

// cursorFor picks the marker for a step: fills show a caret, everything
// else a click.
func cursorFor(step string, x, y int) overlay.Cursor {
	if strings.HasPrefix(step, "fill ") {
		return overlay.Cursor{X: x, Y: y, State: overlay.CursorText}
	}
	return overlay.Cursor{X: x, Y: y, State: overlay.CursorPointer, Click: true}
}

func elementCenter(el *rod.Element) (int, int, error) {
	box, err := el.Shape()
	if err != nil {
		return 0, 0, err
	}
	if len(box.Quads) == 0 {
		return 0, 0, fmt.Errorf("element has no shape")
	}

	quad := box.Quads[0]
	x := int((quad[0] + quad[2] + quad[4] + quad[6]) / 4)
	y := int((quad[1] + quad[3] + quad[5] + quad[7]) / 4)
	return x, y, nil
}

func captureFrame(page Screenshotter) (image.Image, error) {
	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}
