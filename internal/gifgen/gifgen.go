// Package gifgen encodes recorded frames into a looping animated GIF.
package gifgen

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"sort"
	"time"

	"github.com/nfnt/resize"
)

// Options configures GIF generation
type Options struct {
	MaxWidth uint
	// FrameDelay is how long each frame is shown.
	FrameDelay time.Duration
	// FinalHold replaces FrameDelay for the last frame.
	FinalHold time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxWidth:   800,
		FrameDelay: 700 * time.Millisecond,
		FinalHold:  2 * time.Second,
	}
}

var ErrNoFrames = errors.New("no frames to encode")

// Encode writes frames as a GIF to w
func Encode(w io.Writer, frames []image.Image, opts Options) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if opts.MaxWidth == 0 {
		opts.MaxWidth = 800
	}

	bounds := frames[0].Bounds()
	outputWidth := opts.MaxWidth
	if uint(bounds.Dx()) < outputWidth {
		outputWidth = uint(bounds.Dx())
	}
	outputHeight := uint(float64(outputWidth) * float64(bounds.Dy()) / float64(bounds.Dx()))

	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		LoopCount: 0,
	}

	palette := generatePalette(frames)
	delay := hundredths(opts.FrameDelay)
	for i, frame := range frames {
		resized := resize.Resize(outputWidth, outputHeight, frame, resize.Lanczos3)
		paletted := image.NewPaletted(resized.Bounds(), palette)
		draw.FloydSteinberg.Draw(paletted, resized.Bounds(), resized, image.Point{})
		g.Image[i] = paletted
		g.Delay[i] = delay
	}
	if opts.FinalHold > 0 {
		g.Delay[len(frames)-1] = hundredths(opts.FinalHold)
	}

	return gif.EncodeAll(w, g)
}

// Generate writes the GIF to outputPath and returns its size in bytes
func Generate(frames []image.Image, outputPath string, opts Options) (int64, error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := Encode(f, frames, opts); err != nil {
		return 0, err
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// GIF delays are in 100ths of a second
func hundredths(d time.Duration) int {
	h := int(d / (10 * time.Millisecond))
	if h < 1 {
		h = 1
	}
	return h
}

// generatePalette picks the 255 most frequent colors sampled across all frames,
// plus a transparent entry. Form screenshots are mostly flat colors, so
// frequency is a good enough quantizer.
func generatePalette(frames []image.Image) color.Palette {
	counts := make(map[color.RGBA]int)
	const step = 4
	for _, img := range frames {
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y += step {
			for x := b.Min.X; x < b.Max.X; x += step {
				counts[color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)]++
			}
		}
	}

	colors := make([]color.RGBA, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		if counts[colors[i]] != counts[colors[j]] {
			return counts[colors[i]] > counts[colors[j]]
		}
		return rgbaKey(colors[i]) < rgbaKey(colors[j])
	})

	palette := make(color.Palette, 0, 256)
	palette = append(palette, color.RGBA{0, 0, 0, 0})
	for i := 0; i < len(colors) && len(palette) < 256; i++ {
		palette = append(palette, colors[i])
	}
	for len(palette) < 256 {
		gray := uint8(len(palette))
		palette = append(palette, color.RGBA{gray, gray, gray, 255})
	}
	return palette
}

func rgbaKey(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}
