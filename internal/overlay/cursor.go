// Package overlay marks where each recorded step acted: an arrow and click
// ring for clicks, a text caret for typing, and a progress bar along the
// bottom edge.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// CursorState represents the visual state of the cursor
type CursorState int

const (
	CursorNone CursorState = iota
	CursorPointer
	CursorText
)

// Cursor is the marker drawn on one frame
type Cursor struct {
	X     int
	Y     int
	State CursorState
	Click bool
}

const progressHeight = 4

var (
	outlineColor  = color.RGBA{0, 0, 0, 255}
	fillColor     = color.RGBA{255, 255, 255, 255}
	rippleColor   = color.RGBA{66, 133, 244, 255}
	progressColor = color.RGBA{66, 133, 244, 255}
)

// Apply draws the cursor for frame i from cursors[i] plus a progress bar.
// Frames are copied, never modified in place.
func Apply(frames []image.Image, cursors []Cursor) ([]image.Image, error) {
	if len(frames) != len(cursors) {
		return nil, fmt.Errorf("got %d frames but %d cursors", len(frames), len(cursors))
	}
	result := make([]image.Image, len(frames))
	for i, frame := range frames {
		img := copyFrame(frame)
		drawCursor(img, cursors[i])
		drawProgress(img, i+1, len(frames))
		result[i] = img
	}
	return result, nil
}

func copyFrame(frame image.Image) *image.RGBA {
	bounds := frame.Bounds()
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, frame, bounds.Min, draw.Src)
	return img
}

func drawCursor(img *image.RGBA, c Cursor) {
	switch c.State {
	case CursorNone:
		return
	case CursorText:
		drawCaret(img, c.X, c.Y)
	default:
		if c.Click {
			drawClickRing(img, c.X, c.Y)
		}
		drawArrow(img, c.X, c.Y)
	}
}

// drawArrow draws a simple arrow cursor with its tip at (x, y)
func drawArrow(img *image.RGBA, x, y int) {
	points := []image.Point{{0, 0}, {0, 16}, {4, 12}, {7, 18}, {10, 17}, {7, 11}, {12, 11}}

	for dy := 0; dy <= 16; dy++ {
		for dx := 0; dx < 13; dx++ {
			if insideArrow(dx, dy) {
				setPixelSafe(img, x+dx, y+dy, fillColor)
			}
		}
	}
	for i := range points {
		p1, p2 := points[i], points[(i+1)%len(points)]
		drawLine(img, x+p1.X, y+p1.Y, x+p2.X, y+p2.Y, outlineColor)
	}
}

func insideArrow(dx, dy int) bool {
	if dy <= 11 {
		return dx <= dy*12/16
	}
	return dx <= 4
}

// drawCaret draws an I-beam centered on (x, y)
func drawCaret(img *image.RGBA, x, y int) {
	const half = 9
	for _, off := range []int{-1, 1} {
		drawLine(img, x+off, y-half, x+off, y+half, fillColor)
	}
	drawLine(img, x, y-half, x, y+half, outlineColor)
	drawLine(img, x-3, y-half, x+3, y-half, outlineColor)
	drawLine(img, x-3, y+half, x+3, y+half, outlineColor)
}

func drawClickRing(img *image.RGBA, x, y int) {
	for _, radius := range []float64{12, 13, 14} {
		for angle := 0.0; angle < 360; angle++ {
			rad := angle * math.Pi / 180
			setPixelSafe(img, x+int(radius*math.Cos(rad)), y+int(radius*math.Sin(rad)), rippleColor)
		}
	}
}

func drawProgress(img *image.RGBA, step, total int) {
	b := img.Bounds()
	if total == 0 || b.Dy() < progressHeight {
		return
	}
	width := b.Dx() * step / total
	bar := image.Rect(b.Min.X, b.Max.Y-progressHeight, b.Min.X+width, b.Max.Y)
	draw.Draw(img, bar, &image.Uniform{C: progressColor}, image.Point{}, draw.Src)
}

// drawLine draws a line between two points using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		setPixelSafe(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func setPixelSafe(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{x, y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
