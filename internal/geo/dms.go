// dms.go

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

// DMS is an angle written as degrees, minutes and seconds.
// The sign is carried by every component, so 3°49'03.5" W is {-3, -49, -3.5}.
type DMS struct {
	Deg, Min, Sec float64
}

// Decimal converts the angle to decimal degrees.
func (d DMS) Decimal() float64 {
	return d.Deg + d.Min/60 + d.Sec/3600
}

func (d DMS) String() string {
	return fmt.Sprintf("%g°%g'%g\"", d.Deg, d.Min, d.Sec)
}

// LatLon is a geodesic position in DMS form.
type LatLon struct {
	Lat, Lon DMS
}

// Decimal returns latitude and longitude in decimal degrees.
func (p LatLon) Decimal() (lat, lon float64) {
	return p.Lat.Decimal(), p.Lon.Decimal()
}

// FromDecimal splits a decimal angle into DMS, all components carrying its sign.
func FromDecimal(deg float64) DMS {
	sign := 1.0
	if deg < 0 {
		sign = -1
		deg = -deg
	}
	d := float64(int(deg))
	rem := (deg - d) * 60
	m := float64(int(rem))
	s := (rem - m) * 60
	return DMS{Deg: sign * d, Min: sign * m, Sec: sign * s}
}
