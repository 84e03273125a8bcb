// frame.go

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

import "fmt"

// LocalFrame is a flat east/north frame anchored at a geodesic origin
// (the rescue boat). Offsets are differences of UTM coordinates, so every
// point is projected into the origin's zone.
type LocalFrame struct {
	origin UTM
}

// NewLocalFrame anchors a frame at the given decimal position.
func NewLocalFrame(lat, lon float64) (*LocalFrame, error) {
	o, err := FromLatLon(lat, lon)
	if err != nil {
		return nil, err
	}
	return &LocalFrame{origin: o}, nil
}

// NewLocalFrameDMS anchors a frame at a DMS position.
func NewLocalFrameDMS(p LatLon) (*LocalFrame, error) {
	return NewLocalFrame(p.Decimal())
}

// Origin returns the UTM position of the frame origin.
func (f *LocalFrame) Origin() UTM {
	return f.origin
}

// Offset returns the east/north displacement of (lat, lon) from the origin.
// Points whose natural zone differs from the origin's are rejected; forcing
// them into the origin zone would hide a large projection error.
func (f *LocalFrame) Offset(lat, lon float64) (Vec2, error) {
	u, err := FromLatLon(lat, lon)
	if err != nil {
		return Vec2{}, err
	}
	if u.Zone != f.origin.Zone {
		return Vec2{}, fmt.Errorf("Position is in UTM zone %d, frame origin is in zone %d", u.Zone, f.origin.Zone)
	}
	return Vec2{X: u.Easting - f.origin.Easting, Y: u.Northing - f.origin.Northing}, nil
}

// OffsetDMS is Offset for a DMS position.
func (f *LocalFrame) OffsetDMS(p LatLon) (Vec2, error) {
	return f.Offset(p.Decimal())
}

// LatLon converts a local offset back to decimal degrees.
func (f *LocalFrame) LatLon(v Vec2) (lat, lon float64, err error) {
	u := f.origin
	u.Easting += v.X
	u.Northing += v.Y
	return ToLatLon(u)
}
