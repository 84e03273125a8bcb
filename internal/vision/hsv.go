// hsv.go

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

	"gocv.io/x/gocv"
)

// HSV is a colour in the OpenCV 8-bit convention used by the lab's threshold
// values: H in [0,180), S and V in [0,255].
type HSV struct {
	H, S, V uint8
}

// Line thresholds for the red track line.
var (
	RedLow  = HSV{0, 125, 125}
	RedHigh = HSV{30, 255, 255}
)

// ToHSV converts an 8-bit RGB triple.
func ToHSV(r, g, b uint8) HSV {
	src, err := gocv.NewMatFromBytes(1, 1, gocv.MatTypeCV8UC3, []byte{b, g, r})
	if err != nil {
		return HSV{}
	}
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToHSV)
	px := dst.ToBytes()
	if len(px) < 3 {
		return HSV{}
	}
	return HSV{H: px[0], S: px[1], V: px[2]}
}

// ColorToHSV converts any colour.Color.
func ColorToHSV(c color.Color) HSV {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ToHSV(n.R, n.G, n.B)
}

// In reports whether c lies inside [lo, hi] on every channel.
func (c HSV) In(lo, hi HSV) bool {
	return c.H >= lo.H && c.H <= hi.H &&
		c.S >= lo.S && c.S <= hi.S &&
		c.V >= lo.V && c.V <= hi.V
}

func (c HSV) scalar() gocv.Scalar {
	return gocv.NewScalar(float64(c.H), float64(c.S), float64(c.V), 0)
}

// InRange thresholds img in HSV space. The mask is 255 where the pixel is in
// range and 0 elsewhere; its bounds start at (0,0) whatever img's origin.
func InRange(img image.Image, lo, hi HSV) *image.Gray {
	b := img.Bounds()
	if b.Empty() {
		return image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	src, err := bgrMat(img)
	if err != nil {
		return image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	defer src.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, lo.scalar(), hi.scalar(), &mask)
	return grayImage(mask)
}
