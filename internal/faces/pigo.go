// pigo.go

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
	"errors"
	"fmt"
	"image"
	"math"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// PigoParams tunes the cascade run.
type PigoParams struct {
	MinSize      int
	MaxSize      int
	ShiftFactor  float64
	ScaleFactor  float64
	IoUThreshold float64
	MinScore     float64
	// Angles are the in-plane rotations, radians, the cascade is run at.
	// Faces of people floating in the water are seldom upright.
	Angles []float64
}

// DefaultPigoParams searches upright faces and every 45 degrees around.
func DefaultPigoParams() PigoParams {
	angles := make([]float64, 8)
	for i := range angles {
		angles[i] = float64(i) * math.Pi / 4
	}
	return PigoParams{
		MinSize:      20,
		MaxSize:      400,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		IoUThreshold: 0.2,
		MinScore:     5,
		Angles:       angles,
	}
}

// Pigo is a pixel-intensity-comparison cascade face detector.
type Pigo struct {
	classifier *pigo.Pigo
	params     PigoParams
}

// NewPigo unpacks a cascade file, such as pigo's "facefinder".
func NewPigo(cascade []byte, params PigoParams) (*Pigo, error) {
	if len(cascade) == 0 {
		return nil, errors.New("Empty face cascade")
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpacking face cascade: %w", err)
	}
	if len(params.Angles) == 0 {
		params.Angles = []float64{0}
	}
	return &Pigo{classifier: classifier, params: params}, nil
}

// LoadPigo reads the cascade from path.
func LoadPigo(path string, params PigoParams) (*Pigo, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading face cascade: %w", err)
	}
	return NewPigo(cascade, params)
}

// Detect implements Detector.
func (p *Pigo) Detect(img image.Image) ([]Detection, error) {
	pixels, rows, cols := grayscale(img)
	if rows == 0 || cols == 0 {
		return nil, nil
	}
	cp := pigo.CascadeParams{
		MinSize:     p.params.MinSize,
		MaxSize:     p.params.MaxSize,
		ShiftFactor: p.params.ShiftFactor,
		ScaleFactor: p.params.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	origin := img.Bounds().Min
	var dets []Detection
	for _, angle := range p.params.Angles {
		// pigo wants the angle as a fraction of a full turn
		raw := p.classifier.RunCascade(cp, angle/(2*math.Pi))
		for _, d := range p.classifier.ClusterDetections(raw, p.params.IoUThreshold) {
			if float64(d.Q) < p.params.MinScore {
				continue
			}
			half := d.Scale / 2
			box := image.Rect(d.Col-half, d.Row-half, d.Col+half, d.Row+half).Add(origin)
			dets = append(dets, Detection{Box: box, Score: float64(d.Q), Angle: angle})
		}
	}
	return Suppress(dets, p.params.IoUThreshold), nil
}

// grayscale converts img to the row-major luma buffer pigo works on.
func grayscale(img image.Image) (pixels []uint8, rows, cols int) {
	b := img.Bounds()
	rows, cols = b.Dy(), b.Dx()
	pixels = make([]uint8, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// ITU-R 601-2 luma, inputs are 16-bit
			pixels[y*cols+x] = uint8((299*r + 587*g + 114*bl) / 1000 >> 8)
		}
	}
	return pixels, rows, cols
}
