// track.go

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
	"math"

	"github.com/mihaiBront/roboticalab/internal/geo"
)

// Track is a painted line on the ground.
type Track interface {
	// Distance returns how far p is from the centre of the line.
	Distance(p geo.Vec2) float64
	// Start returns a pose on the line heading along it.
	Start() (geo.Vec2, float64)
}

// CircleTrack is a circular line driven counter-clockwise.
type CircleTrack struct {
	Center geo.Vec2
	Radius float64
}

// Distance implements Track.
func (c CircleTrack) Distance(p geo.Vec2) float64 {
	return math.Abs(p.Dist(c.Center) - c.Radius)
}

// Start implements Track: the southernmost point, heading east.
func (c CircleTrack) Start() (geo.Vec2, float64) {
	return geo.Vec2{X: c.Center.X, Y: c.Center.Y - c.Radius}, 0
}

// PolylineTrack is a line through Points; Closed joins the last point to the first.
type PolylineTrack struct {
	Points []geo.Vec2
	Closed bool
}

// Distance implements Track.
func (t PolylineTrack) Distance(p geo.Vec2) float64 {
	best := math.Inf(1)
	n := len(t.Points)
	if n == 1 {
		return p.Dist(t.Points[0])
	}
	segs := n - 1
	if t.Closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a, b := t.Points[i], t.Points[(i+1)%n]
		best = math.Min(best, segmentDistance(p, a, b))
	}
	return best
}

// Start implements Track: the first point, heading to the second.
func (t PolylineTrack) Start() (geo.Vec2, float64) {
	if len(t.Points) < 2 {
		if len(t.Points) == 1 {
			return t.Points[0], 0
		}
		return geo.Vec2{}, 0
	}
	return t.Points[0], geo.Heading(t.Points[0], t.Points[1])
}

func segmentDistance(p, a, b geo.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	u := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	u = math.Max(0, math.Min(1, u))
	return p.Dist(a.Add(ab.Scale(u)))
}
