// draw.go

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
	"image/draw"
	"strings"

	"gocv.io/x/gocv"
)

// DefaultMarkerSize matches the cross marker drawn on the line mask.
const DefaultMarkerSize = 20

// DrawMarker draws a cross of size pixels centred on (x, y), clipped to img.
func DrawMarker(img draw.Image, x, y int, c color.Color, size, thickness int) {
	if size <= 0 {
		size = DefaultMarkerSize
	}
	if thickness <= 0 {
		thickness = 1
	}
	p := image.Pt(x, y).Sub(img.Bounds().Min)
	half := size / 2
	drawOn(img, c, func(m *gocv.Mat, c color.RGBA) {
		gocv.Line(m, image.Pt(p.X-half, p.Y), image.Pt(p.X+half, p.Y), c, thickness)
		gocv.Line(m, image.Pt(p.X, p.Y-half), image.Pt(p.X, p.Y+half), c, thickness)
	})
}

// DrawRect draws the outline of r.
func DrawRect(img draw.Image, r image.Rectangle, c color.Color, thickness int) {
	if thickness <= 0 {
		thickness = 1
	}
	r = r.Sub(img.Bounds().Min)
	if r.Empty() {
		return
	}
	// the corners given to OpenCV are inclusive
	corners := image.Rect(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1)
	drawOn(img, c, func(m *gocv.Mat, c color.RGBA) {
		gocv.Rectangle(m, corners, c, thickness)
	})
}

// ToRGBA copies img into a new RGBA image with bounds starting at (0,0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// RenderASCII dumps a mask one character per pixel: '#' set, '.' clear.
func RenderASCII(mask *image.Gray) string {
	var sb strings.Builder
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
