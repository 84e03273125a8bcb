// blob.go

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

package faces

import (
	"image"

	"github.com/mihaiBront/roboticalab/internal/vision"
)

// Skin tone thresholds used by ColorBlob.
var (
	SkinLow  = vision.HSV{H: 5, S: 60, V: 100}
	SkinHigh = vision.HSV{H: 25, S: 200, V: 255}
)

// ColorBlob detects faces as skin coloured blobs. It is what the simulated
// scene is drawn for; real footage needs Pigo.
type ColorBlob struct {
	Low, High vision.HSV
	MinArea   int
	MaxArea   int // 0 means no limit
}

// NewColorBlob returns a skin blob detector ignoring blobs under minArea pixels.
func NewColorBlob(minArea int) *ColorBlob {
	return &ColorBlob{Low: SkinLow, High: SkinHigh, MinArea: minArea}
}

// Detect implements Detector. The score is the blob area.
func (c *ColorBlob) Detect(img image.Image) ([]Detection, error) {
	mask := vision.InRange(img, c.Low, c.High)
	origin := img.Bounds().Min
	var dets []Detection
	for _, b := range vision.FindBlobs(mask) {
		if b.Area() < c.MinArea || (c.MaxArea > 0 && b.Area() > c.MaxArea) {
			continue
		}
		dets = append(dets, Detection{Box: b.Box.Add(origin), Score: float64(b.Area())})
	}
	return dets, nil
}
