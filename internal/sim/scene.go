// scene.go

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

package sim

import (
	"image"
	"image/color"
	"math"

	"github.com/mihaiBront/roboticalab/internal/geo"
	"github.com/mihaiBront/roboticalab/internal/vision"
)

// Scene colours. Skin sits inside the face blob threshold, nothing else does.
var (
	SeaColor  = color.RGBA{20, 70, 140, 255}
	SkyColor  = color.RGBA{150, 200, 240, 255}
	SkinColor = color.RGBA{224, 172, 105, 255}
	BoatColor = color.RGBA{235, 235, 235, 255}
)

// Scene is the world seen by the drone cameras, in local metres.
type Scene struct {
	Boat         geo.Vec2
	BoatLength   float64 // along X
	BoatWidth    float64 // along Y
	Victims      []geo.Vec2
	VictimRadius float64
}

// NewScene puts the boat at the origin and the victims at the given positions.
func NewScene(victims ...geo.Vec2) *Scene {
	return &Scene{
		BoatLength:   4,
		BoatWidth:    1.6,
		Victims:      victims,
		VictimRadius: 0.3,
	}
}

// RenderVentral draws what a downward camera at pos with heading yaw sees.
func (s *Scene) RenderVentral(cam vision.GroundCamera, pos geo.Vec3, yaw float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cam.Width, cam.Height))
	fill(img, SeaColor)
	if pos.Z <= 0 || cam.Width == 0 || cam.Height == 0 {
		return img
	}

	halfW, halfH := cam.Footprint(pos.Z)
	reach := math.Hypot(halfW, halfH)
	here := pos.XY()

	if s.BoatLength > 0 && here.Dist(s.Boat) < reach+s.BoatLength {
		for py := 0; py < cam.Height; py++ {
			for px := 0; px < cam.Width; px++ {
				fwd, right := cam.Unproject(float64(px)+0.5, float64(py)+0.5, pos.Z)
				p := geo.BodyToWorld(here, yaw, fwd, right)
				if math.Abs(p.X-s.Boat.X) <= s.BoatLength/2 && math.Abs(p.Y-s.Boat.Y) <= s.BoatWidth/2 {
					img.SetRGBA(px, py, BoatColor)
				}
			}
		}
	}

	pxPerMetre := float64(cam.Width) / (2 * halfW)
	r := s.VictimRadius * pxPerMetre
	for _, v := range s.Victims {
		if here.Dist(v) > reach+s.VictimRadius {
			continue
		}
		fwd, right := geo.WorldToBody(here, yaw, v)
		cx, cy, _ := cam.Project(fwd, right, pos.Z)
		disk(img, cx, cy, r, SkinColor)
	}
	return img
}

// RenderFrontal draws the forward view: sky over sea, the horizon dropping
// slightly as the drone climbs.
func (s *Scene) RenderFrontal(w, h int, altitude float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	horizon := h/2 + int(math.Min(altitude, 20)*float64(h)/80)
	for y := 0; y < h; y++ {
		c := SeaColor
		if y < horizon {
			c = SkyColor
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func disk(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	b := img.Bounds()
	x0 := int(math.Max(math.Floor(cx-r), float64(b.Min.X)))
	x1 := int(math.Min(math.Ceil(cx+r), float64(b.Max.X-1)))
	y0 := int(math.Max(math.Floor(cy-r), float64(b.Min.Y)))
	y1 := int(math.Min(math.Ceil(cy+r), float64(b.Max.Y-1)))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
