// vision_test.go

// Copyright (C) 2018  Steve Merrony

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package vision

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

// lineImage is a 12x6 frame with a 3x4 red patch, a stray red pixel and a
// blue pixel that the red threshold must ignore.
func lineImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 12, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			img.Set(x, y, black)
		}
	}
	for y := 1; y < 5; y++ {
		for x := 2; x < 5; x++ {
			img.Set(x, y, red)
		}
	}
	img.Set(10, 0, red)
	img.Set(9, 4, blue)
	return img
}

func TestToHSV(t *testing.T) {
	assert.Equal(t, HSV{0, 255, 255}, ToHSV(255, 0, 0))
	assert.Equal(t, HSV{60, 255, 255}, ToHSV(0, 255, 0))
	assert.Equal(t, HSV{120, 255, 255}, ToHSV(0, 0, 255))
	assert.Equal(t, HSV{0, 0, 0}, ToHSV(0, 0, 0))
	assert.Equal(t, HSV{0, 0, 200}, ToHSV(200, 200, 200))
	// orange sits inside the red line threshold
	assert.True(t, ToHSV(255, 128, 0).In(RedLow, RedHigh))
	assert.False(t, ToHSV(255, 0, 128).In(RedLow, RedHigh))
}

func TestInRangeGolden(t *testing.T) {
	mask := InRange(lineImage(), RedLow, RedHigh)
	g := goldie.New(t)
	g.Assert(t, "line_mask", []byte(RenderASCII(mask)))

	blobs := FindBlobs(mask)
	require.Len(t, blobs, 2)
	x, y, ok := blobs[0].Moments.Centroid()
	require.True(t, ok)
	DrawMarker(mask, int(x), int(y), color.Gray{}, 4, 1)
	g.Assert(t, "line_mask_marker", []byte(RenderASCII(mask)))
}

func TestInRangeGenericImage(t *testing.T) {
	src := lineImage()
	nrgba := image.NewNRGBA(src.Bounds())
	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			nrgba.Set(x, y, src.At(x, y))
		}
	}
	assert.Equal(t, InRange(src, RedLow, RedHigh).Pix, InRange(nrgba, RedLow, RedHigh).Pix)
}

func TestFindBlobs(t *testing.T) {
	mask := InRange(lineImage(), RedLow, RedHigh)
	blobs := FindBlobs(mask)
	require.Len(t, blobs, 2)

	assert.Equal(t, 12, blobs[0].Area())
	assert.Equal(t, image.Rect(2, 1, 5, 5), blobs[0].Box)
	x, y, ok := blobs[0].Moments.Centroid()
	assert.True(t, ok)
	assert.InDelta(t, 3.0, x, 1e-9)
	assert.InDelta(t, 2.5, y, 1e-9)

	assert.Equal(t, 1, blobs[1].Area())
	assert.Equal(t, image.Rect(10, 0, 11, 1), blobs[1].Box)

	largest, ok := LargestBlob(blobs)
	assert.True(t, ok)
	assert.Equal(t, blobs[0], largest)
}

func TestFindBlobsDiagonalIsConnected(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := 0; i < 4; i++ {
		mask.SetGray(i, i, color.Gray{255})
	}
	blobs := FindBlobs(mask)
	require.Len(t, blobs, 1)
	assert.Equal(t, 4, blobs[0].Area())
}

func TestEmptyMask(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 8, 8))
	assert.Empty(t, FindBlobs(mask))
	_, ok := LargestBlob(nil)
	assert.False(t, ok)
	_, _, ok = MaskMoments(mask).Centroid()
	assert.False(t, ok)
}

func TestCropRows(t *testing.T) {
	img := lineImage()
	roi := CropRows(img, 1, 2)
	assert.Equal(t, 12, roi.Bounds().Dx())
	assert.Equal(t, 3, roi.Bounds().Dy())

	mask := InRange(roi, RedLow, RedHigh)
	assert.Equal(t, image.Rect(0, 0, 12, 3), mask.Bounds())
	// the stray pixel in row 0 is cropped away
	assert.Len(t, FindBlobs(mask), 1)

	assert.Equal(t, 0, CropRows(img, 4, 4).Bounds().Dy())
	assert.Equal(t, 0, CropRows(img, 100, 0).Bounds().Dy())
	assert.Equal(t, 6, CropRows(img, -3, -1).Bounds().Dy())
}

func TestCrop(t *testing.T) {
	c := Crop(lineImage(), image.Rect(8, 2, 20, 20))
	assert.Equal(t, image.Rect(8, 2, 12, 6), c.Bounds())
	assert.Equal(t, image.Rect(0, 0, 4, 4), ToRGBA(c).Bounds())
}

func TestDrawMarkerClipped(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 5))
	assert.NotPanics(t, func() {
		DrawMarker(img, 0, 0, color.Gray{255}, 0, 3)
		DrawMarker(img, -50, -50, color.Gray{255}, 10, 1)
	})
	assert.Equal(t, uint8(255), img.GrayAt(0, 4).Y)
	assert.Equal(t, uint8(255), img.GrayAt(4, 0).Y)
	assert.Equal(t, uint8(0), img.GrayAt(4, 4).Y)
}

func TestDrawRect(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 6, 6))
	DrawRect(img, image.Rect(1, 1, 5, 5), color.Gray{255}, 1)
	assert.Equal(t, uint8(255), img.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(255), img.GrayAt(4, 4).Y)
	assert.Equal(t, uint8(0), img.GrayAt(2, 2).Y)
}

func TestGroundCamera(t *testing.T) {
	cam := GroundCamera{Width: 320, Height: 240, HFOV: math.Pi / 2}
	halfW, halfH := cam.Footprint(3)
	assert.InDelta(t, 3.0, halfW, 1e-9)
	assert.InDelta(t, 2.25, halfH, 1e-9)

	fwd, right := cam.Unproject(160, 120, 3)
	assert.InDelta(t, 0, fwd, 1e-9)
	assert.InDelta(t, 0, right, 1e-9)

	fwd, right = cam.Unproject(320, 0, 3)
	assert.InDelta(t, 2.25, fwd, 1e-9)
	assert.InDelta(t, 3.0, right, 1e-9)

	px, py, ok := cam.Project(1, -1.5, 3)
	require.True(t, ok)
	f2, r2 := cam.Unproject(px, py, 3)
	assert.InDelta(t, 1, f2, 1e-9)
	assert.InDelta(t, -1.5, r2, 1e-9)

	_, _, ok = cam.Project(10, 0, 3)
	assert.False(t, ok)
	_, _, ok = cam.Project(0, 0, 0)
	assert.False(t, ok)
}

func TestFindBlobsRingExcludesHole(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 5, 5))
	for i := 0; i < 5; i++ {
		mask.SetGray(i, 0, color.Gray{255})
		mask.SetGray(i, 4, color.Gray{255})
		mask.SetGray(0, i, color.Gray{255})
		mask.SetGray(4, i, color.Gray{255})
	}
	blobs := FindBlobs(mask)
	require.Len(t, blobs, 1)
	assert.Equal(t, 16, blobs[0].Area())
	assert.Equal(t, image.Rect(0, 0, 5, 5), blobs[0].Box)
	x, y, ok := blobs[0].Moments.Centroid()
	require.True(t, ok)
	assert.InDelta(t, 2.0, x, 1e-9)
	assert.InDelta(t, 2.0, y, 1e-9)
	assert.Equal(t, blobs[0].Moments, MaskMoments(mask))
}

func TestFindBlobsEqualAreaOrder(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 6, 6))
	mask.SetGray(4, 1, color.Gray{255})
	mask.SetGray(1, 4, color.Gray{255})
	mask.SetGray(1, 1, color.Gray{255})
	blobs := FindBlobs(mask)
	require.Len(t, blobs, 3)
	assert.Equal(t, image.Pt(1, 1), blobs[0].Box.Min)
	assert.Equal(t, image.Pt(4, 1), blobs[1].Box.Min)
	assert.Equal(t, image.Pt(1, 4), blobs[2].Box.Min)
}

func TestDrawRectOffsetImage(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 10, 10))
	sub := base.SubImage(image.Rect(4, 4, 10, 10)).(*image.RGBA)
	DrawRect(sub, image.Rect(5, 5, 8, 8), red, 1)
	assert.Equal(t, red, base.RGBAAt(5, 5))
	assert.Equal(t, red, base.RGBAAt(7, 7))
	assert.Equal(t, color.RGBA{}, base.RGBAAt(6, 6))
	assert.Equal(t, color.RGBA{}, base.RGBAAt(4, 4))
}
