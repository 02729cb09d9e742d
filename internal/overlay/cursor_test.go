package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whiteFrame(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

func TestApplyRejectsLengthMismatch(t *testing.T) {
	_, err := Apply([]image.Image{whiteFrame(10, 10)}, nil)
	assert.Error(t, err)
}

func TestApplyDrawsClickAndProgress(t *testing.T) {
	frames := []image.Image{whiteFrame(100, 60), whiteFrame(100, 60)}
	out, err := Apply(frames, []Cursor{
		{State: CursorNone},
		{X: 50, Y: 20, State: CursorPointer, Click: true},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	// the source frame is untouched
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, color.RGBAModel.Convert(frames[1].At(50, 20)))

	// arrow tip is outlined
	assert.Equal(t, outlineColor, out[1].At(50, 20))
	// click ring sits to the left of the tip
	assert.Equal(t, rippleColor, out[1].At(50-13, 20))

	// first frame: half-width progress bar, no cursor
	assert.Equal(t, progressColor, out[0].At(10, 59))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out[0].At(75, 59))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out[0].At(50, 20))
	// last frame: full bar
	assert.Equal(t, progressColor, out[1].At(99, 59))
}

func TestCaretForTyping(t *testing.T) {
	out, err := Apply([]image.Image{whiteFrame(40, 40)}, []Cursor{{X: 20, Y: 20, State: CursorText}})
	require.NoError(t, err)
	assert.Equal(t, outlineColor, out[0].At(20, 20))
	assert.Equal(t, fillColor, out[0].At(21, 20))
}
