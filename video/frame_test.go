package video

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSideMask(t *testing.T) {
	frame := NewSolidFrame(200, 100, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	colorHalf, maskHalf := SplitSideMask(frame)
	require.NotNil(t, colorHalf)
	require.NotNil(t, maskHalf)

	w, h := colorHalf.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
	assert.Equal(t, image.Pt(0, 0), colorHalf.Bounds().Min)

	w, h = maskHalf.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
	assert.Equal(t, image.Pt(100, 0), maskHalf.Bounds().Min)
}

func TestSplitSideMask_NilFrame(t *testing.T) {
	colorHalf, maskHalf := SplitSideMask(nil)
	assert.Nil(t, colorHalf)
	assert.Nil(t, maskHalf)
}

func TestApplyAlphaMask(t *testing.T) {
	base := NewSolidFrame(4, 4, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	mask := NewSolidFrame(4, 4, color.NRGBA{R: 64, G: 0, B: 0, A: 255})

	require.NoError(t, ApplyAlphaMask(mask, base))

	c := base.Image().NRGBAAt(2, 3)
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 64}, c)
}

func TestApplyAlphaMask_SideBySide(t *testing.T) {
	frame := NewSolidFrame(8, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	for y := 0; y < 2; y++ {
		for x := 4; x < 8; x++ {
			frame.Image().SetNRGBA(x, y, color.NRGBA{R: 128, A: 255})
		}
	}

	colorHalf, maskHalf := SplitSideMask(frame)
	require.NoError(t, ApplyAlphaMask(maskHalf, colorHalf))

	assert.Equal(t, uint8(128), colorHalf.Image().NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(128), colorHalf.Image().NRGBAAt(3, 1).A)
	assert.Equal(t, uint8(128), frame.Image().NRGBAAt(4, 0).R, "mask half is left untouched")
}

func TestApplyAlphaMask_Errors(t *testing.T) {
	mask := NewSolidFrame(2, 2, color.NRGBA{})
	assert.ErrorIs(t, ApplyAlphaMask(mask, nil), ErrNoBaseFrame)
	assert.ErrorIs(t, ApplyAlphaMask(nil, mask), ErrNoMaskFrame)
}

func TestApplyAlphaMask_SizeMismatch(t *testing.T) {
	base := NewSolidFrame(4, 4, color.NRGBA{A: 255})
	mask := NewSolidFrame(2, 2, color.NRGBA{R: 7})

	require.NoError(t, ApplyAlphaMask(mask, base))
	assert.Equal(t, uint8(7), base.Image().NRGBAAt(1, 1).A)
	assert.Equal(t, uint8(255), base.Image().NRGBAAt(3, 3).A)
}

func TestNewFrame_Nil(t *testing.T) {
	assert.Nil(t, NewFrame(nil))
}
