// car.go

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
	"context"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/mihaiBront/roboticalab/internal/geo"
)

// Ground colours seen by the car camera.
var (
	LineColor   = color.RGBA{230, 30, 20, 255}
	GroundColor = color.RGBA{90, 90, 90, 255}
	HorizonSky  = color.RGBA{170, 200, 230, 255}
)

// CarCamera is a forward-looking pinhole camera mounted on the car.
type CarCamera struct {
	Width, Height int
	Horizon       int     // image row of the horizon
	Focal         float64 // pixels
	Mount         float64 // metres above the ground
}

// DefaultCarCamera is a 640x480 camera 0.4m up with the horizon at row 200.
func DefaultCarCamera() CarCamera {
	return CarCamera{Width: 640, Height: 480, Horizon: 200, Focal: 300, Mount: 0.4}
}

// Car is a unicycle-model robot driving over a Track.
type Car struct {
	mu        sync.RWMutex // protects every field below
	pos       geo.Vec2
	heading   float64
	v, w      float64
	odometer  float64
	maxOff    float64
	track     Track
	lineWidth float64
	cam       CarCamera
}

// NewCar places a car at the start of track.
func NewCar(track Track, lineWidth float64, cam CarCamera) *Car {
	pos, heading := track.Start()
	return &Car{track: track, lineWidth: lineWidth, cam: cam, pos: pos, heading: heading}
}

// SetV sets the forward speed in m/s.
func (c *Car) SetV(v float64) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

// SetW sets the turn rate in rad/s, positive to the left.
func (c *Car) SetW(w float64) {
	c.mu.Lock()
	c.w = w
	c.mu.Unlock()
}

// Commands returns the last speed and turn rate.
func (c *Car) Commands() (v, w float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v, c.w
}

// Pose returns position and heading.
func (c *Car) Pose() (geo.Vec2, float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pos, c.heading
}

// SetPose places the car.
func (c *Car) SetPose(p geo.Vec2, heading float64) {
	c.mu.Lock()
	c.pos, c.heading = p, geo.WrapAngle(heading)
	c.maxOff = 0
	c.mu.Unlock()
}

// Odometer returns the distance driven.
func (c *Car) Odometer() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.odometer
}

// OffTrack returns the distance from the car to the line centre.
func (c *Car) OffTrack() float64 {
	p, _ := c.Pose()
	return c.track.Distance(p)
}

// MaxOffTrack returns the largest OffTrack seen after a Step since the car
// was created or last placed.
func (c *Car) MaxOffTrack() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxOff
}

// Step integrates the unicycle model over dt seconds.
func (c *Car) Step(dt float64) {
	if dt <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w == 0 {
		c.pos = c.pos.Add(geo.Vec2{X: math.Cos(c.heading), Y: math.Sin(c.heading)}.Scale(c.v * dt))
	} else {
		// exact arc
		r := c.v / c.w
		h1 := c.heading + c.w*dt
		c.pos.X += r * (math.Sin(h1) - math.Sin(c.heading))
		c.pos.Y -= r * (math.Cos(h1) - math.Cos(c.heading))
		c.heading = geo.WrapAngle(h1)
	}
	c.odometer += math.Abs(c.v) * dt
	c.maxOff = max(c.maxOff, c.track.Distance(c.pos))
}

// Start runs the physics in real time until ctx is done.
func (c *Car) Start(ctx context.Context, period time.Duration) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.Step(now.Sub(last).Seconds())
				last = now
			}
		}
	}()
}

// Image renders the camera view of the ground ahead.
func (c *Car) Image() (image.Image, error) {
	pos, heading := c.Pose()
	cam := c.cam
	img := image.NewRGBA(image.Rect(0, 0, cam.Width, cam.Height))
	half := c.lineWidth / 2
	for y := 0; y < cam.Height; y++ {
		if y <= cam.Horizon {
			for x := 0; x < cam.Width; x++ {
				img.SetRGBA(x, y, HorizonSky)
			}
			continue
		}
		ahead := cam.Mount * cam.Focal / (float64(y) + 0.5 - float64(cam.Horizon))
		for x := 0; x < cam.Width; x++ {
			right := (float64(x) + 0.5 - float64(cam.Width)/2) * ahead / cam.Focal
			p := geo.BodyToWorld(pos, heading, ahead, right)
			if c.track.Distance(p) <= half {
				img.SetRGBA(x, y, LineColor)
			} else {
				img.SetRGBA(x, y, GroundColor)
			}
		}
	}
	return img, nil
}
