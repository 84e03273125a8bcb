// vec.go

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

package geo

import "math"

// Vec2 is a point or displacement on the local ground plane, in metres.
// X points east and Y points north.
type Vec2 struct {
	X, Y float64
}

// Vec3 adds altitude (Z, metres above the take-off point) to a Vec2.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Norm returns the length of v.
func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the distance between v and w.
func (v Vec2) Dist(w Vec2) float64 { return v.Sub(w).Norm() }

// Rotate rotates v counter-clockwise by rad radians.
func (v Vec2) Rotate(rad float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// XY drops the altitude.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Norm returns the length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// WrapAngle maps rad into (-pi, pi].
// Infinities give NaN.
func WrapAngle(rad float64) float64 {
	rad = math.Remainder(rad, 2*math.Pi)
	if rad <= -math.Pi {
		rad += 2 * math.Pi
	}
	return rad
}

// Heading returns the direction of travel from v to w, counter-clockwise from east.
func Heading(from, to Vec2) float64 {
	d := to.Sub(from)
	return math.Atan2(d.Y, d.X)
}

// BodyToWorld converts an offset in a body frame (forward, right) at pos
// with heading yaw into a world position.
func BodyToWorld(pos Vec2, yaw, forward, right float64) Vec2 {
	s, c := math.Sincos(yaw)
	return Vec2{
		X: pos.X + forward*c + right*s,
		Y: pos.Y + forward*s - right*c,
	}
}

// WorldToBody is the inverse of BodyToWorld.
func WorldToBody(pos Vec2, yaw float64, p Vec2) (forward, right float64) {
	s, c := math.Sincos(yaw)
	d := p.Sub(pos)
	return d.X*c + d.Y*s, d.X*s - d.Y*c
}
