// blobs.go

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
	"sort"

	"gocv.io/x/gocv"
)

// Moments holds the raw spatial moments of a binary region.
type Moments struct {
	M00, M10, M01 float64
}

// Centroid returns the centre of mass. ok is false for an empty region.
func (m Moments) Centroid() (x, y float64, ok bool) {
	if m.M00 == 0 {
		return 0, 0, false
	}
	return m.M10 / m.M00, m.M01 / m.M00, true
}

// Blob is an 8-connected region of non-zero mask pixels.
type Blob struct {
	Box     image.Rectangle
	Moments Moments
}

// Area is the pixel count of the blob.
func (b Blob) Area() int {
	return int(b.Moments.M00)
}

func binaryMoments(m gocv.Mat, origin image.Point) Moments {
	mm := gocv.Moments(m, true)
	return Moments{
		M00: mm["m00"],
		M10: mm["m10"] + mm["m00"]*float64(origin.X),
		M01: mm["m01"] + mm["m00"]*float64(origin.Y),
	}
}

// MaskMoments computes the moments of every non-zero pixel of mask.
func MaskMoments(mask *image.Gray) Moments {
	if mask.Bounds().Empty() {
		return Moments{}
	}
	m, err := grayMat(mask)
	if err != nil {
		return Moments{}
	}
	defer m.Close()
	return binaryMoments(m, mask.Bounds().Min)
}

var white = color.RGBA{255, 255, 255, 255}

// FindBlobs returns the outer contours of mask as blobs, largest first.
// Each blob's moments count the mask pixels inside its contour. Blobs of
// equal area are ordered top-to-bottom, then left-to-right.
func FindBlobs(mask *image.Gray) []Blob {
	b := mask.Bounds()
	if b.Empty() {
		return nil
	}
	src, err := grayMat(mask)
	if err != nil {
		return nil
	}
	defer src.Close()

	contours := gocv.FindContours(src, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()

	var blobs []Blob
	for i := 0; i < contours.Size(); i++ {
		region := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), b.Dy(), b.Dx(), gocv.MatTypeCV8UC1)
		gocv.DrawContours(&region, contours, i, white, -1)
		gocv.BitwiseAnd(region, src, &region)
		mom := binaryMoments(region, b.Min)
		region.Close()
		if mom.M00 == 0 {
			continue
		}
		box := gocv.BoundingRect(contours.At(i))
		blobs = append(blobs, Blob{Box: box.Add(b.Min), Moments: mom})
	}
	sort.SliceStable(blobs, func(i, j int) bool {
		bi, bj := blobs[i], blobs[j]
		if bi.Moments.M00 != bj.Moments.M00 {
			return bi.Moments.M00 > bj.Moments.M00
		}
		if bi.Box.Min.Y != bj.Box.Min.Y {
			return bi.Box.Min.Y < bj.Box.Min.Y
		}
		return bi.Box.Min.X < bj.Box.Min.X
	})
	return blobs
}

// LargestBlob returns the biggest blob; ok is false when there are none.
func LargestBlob(blobs []Blob) (Blob, bool) {
	if len(blobs) == 0 {
		return Blob{}, false
	}
	best := blobs[0]
	for _, b := range blobs[1:] {
		if b.Moments.M00 > best.Moments.M00 {
			best = b
		}
	}
	return best, true
}
