// mat.go

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

	"gocv.io/x/gocv"
)

// bgrMat copies img into an 8-bit, 3-channel BGR Mat with its origin at (0,0).
func bgrMat(img image.Image) (gocv.Mat, error) {
	b := img.Bounds()
	data := make([]byte, 0, 3*b.Dx()*b.Dy())
	if rgba, ok := img.(*image.RGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := rgba.PixOffset(b.Min.X, y)
			row := rgba.Pix[off : off+4*b.Dx()]
			for x := 0; x < b.Dx(); x++ {
				data = append(data, row[4*x+2], row[4*x+1], row[4*x])
			}
		}
	} else {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				data = append(data, c.B, c.G, c.R)
			}
		}
	}
	return gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC3, data)
}

// grayMat copies mask into a single channel Mat with its origin at (0,0).
func grayMat(mask *image.Gray) (gocv.Mat, error) {
	b := mask.Bounds()
	data := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := mask.PixOffset(b.Min.X, y)
		data = append(data, mask.Pix[off:off+b.Dx()]...)
	}
	return gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1, data)
}

// grayImage copies a single channel Mat into a new Gray image.
func grayImage(m gocv.Mat) *image.Gray {
	rows, cols := m.Rows(), m.Cols()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	copy(img.Pix, m.ToBytes())
	return img
}

// drawOn copies img into a Mat, lets paint draw on it and copies back the
// pixels that changed. Coordinates given to paint are relative to img's origin.
func drawOn(img draw.Image, c color.Color, paint func(m *gocv.Mat, c color.RGBA)) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	if gray, ok := img.(*image.Gray); ok {
		m, err := grayMat(gray)
		if err != nil {
			return
		}
		defer m.Close()
		y := color.GrayModel.Convert(c).(color.Gray).Y
		paint(&m, color.RGBA{y, y, y, 255})
		after := m.ToBytes()
		for row := 0; row < b.Dy(); row++ {
			off := gray.PixOffset(b.Min.X, b.Min.Y+row)
			copy(gray.Pix[off:off+b.Dx()], after[row*b.Dx():(row+1)*b.Dx()])
		}
		return
	}

	m, err := bgrMat(img)
	if err != nil {
		return
	}
	defer m.Close()
	before := m.ToBytes()
	paint(&m, color.RGBAModel.Convert(c).(color.RGBA))
	after := m.ToBytes()
	for i := 0; i+2 < len(after); i += 3 {
		if after[i] == before[i] && after[i+1] == before[i+1] && after[i+2] == before[i+2] {
			continue
		}
		px := i / 3
		img.Set(b.Min.X+px%b.Dx(), b.Min.Y+px/b.Dx(), color.RGBA{after[i+2], after[i+1], after[i], 255})
	}
}
