// camera.go

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

import "math"

// GroundCamera models a camera looking straight down from a drone.
// Image x grows to the drone's right and image y grows backwards, so the top
// of the frame is ahead of the drone.
type GroundCamera struct {
	Width, Height int
	HFOV          float64 // horizontal field of view, radians
}

// Footprint returns the half-width and half-height in metres of the ground
// area seen from altitude.
func (c GroundCamera) Footprint(altitude float64) (halfW, halfH float64) {
	halfW = altitude * math.Tan(c.HFOV/2)
	halfH = halfW * float64(c.Height) / float64(c.Width)
	return halfW, halfH
}

// Unproject maps pixel (px, py) seen from altitude to a ground offset in the
// body frame: forward and right of the drone, metres.
func (c GroundCamera) Unproject(px, py, altitude float64) (forward, right float64) {
	halfW, halfH := c.Footprint(altitude)
	cx, cy := float64(c.Width)/2, float64(c.Height)/2
	right = (px - cx) / cx * halfW
	forward = (cy - py) / cy * halfH
	return forward, right
}

// Project is the inverse of Unproject. ok is false when the point falls
// outside the frame.
func (c GroundCamera) Project(forward, right, altitude float64) (px, py float64, ok bool) {
	halfW, halfH := c.Footprint(altitude)
	if halfW <= 0 || halfH <= 0 {
		return 0, 0, false
	}
	cx, cy := float64(c.Width)/2, float64(c.Height)/2
	px = cx + right/halfW*cx
	py = cy - forward/halfH*cy
	ok = px >= 0 && py >= 0 && px < float64(c.Width) && py < float64(c.Height)
	return px, py, ok
}
