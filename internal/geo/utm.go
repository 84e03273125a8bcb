// utm.go

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

import (
	"errors"
	"fmt"
	"math"

	utm "github.com/im7mortal/UTM"
)

// ErrOutOfRange is returned for latitudes the UTM grid does not cover.
var ErrOutOfRange = errors.New("Latitude out of UTM range [-80, 84]")

// UTM is a position on the Universal Transverse Mercator grid.
type UTM struct {
	Easting, Northing float64
	Zone              int
	Letter            byte
}

// Northern reports whether the position lies in the northern hemisphere.
func (u UTM) Northern() bool {
	return u.Letter >= 'N'
}

func (u UTM) String() string {
	return fmt.Sprintf("%d%c %.3fE %.3fN", u.Zone, u.Letter, u.Easting, u.Northing)
}

// FromLatLon projects decimal degrees onto the WGS84 UTM grid, including the
// Norway and Svalbard zone exceptions.
func FromLatLon(lat, lon float64) (UTM, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return UTM{}, errors.New("Latitude and longitude must be numbers")
	}
	if lat < -80 || lat > 84 {
		return UTM{}, ErrOutOfRange
	}
	if lon < -180 || lon > 180 {
		return UTM{}, fmt.Errorf("Longitude %f out of range [-180, 180]", lon)
	}
	easting, northing, zone, letter, err := utm.FromLatLon(lat, lon, lat >= 0)
	if err != nil {
		return UTM{}, fmt.Errorf("projecting %f,%f: %w", lat, lon, err)
	}
	if len(letter) != 1 {
		return UTM{}, fmt.Errorf("Unexpected UTM zone letter %q", letter)
	}
	return UTM{Easting: easting, Northing: northing, Zone: zone, Letter: letter[0]}, nil
}

// ToLatLon converts a UTM position back to decimal degrees.
func ToLatLon(u UTM) (lat, lon float64, err error) {
	if u.Zone < 1 || u.Zone > 60 {
		return 0, 0, fmt.Errorf("UTM zone %d out of range [1, 60]", u.Zone)
	}
	lat, lon, err = utm.ToLatLon(u.Easting, u.Northing, u.Zone, string(u.Letter))
	if err != nil {
		return 0, 0, fmt.Errorf("unprojecting %s: %w", u, err)
	}
	return lat, lon, nil
}
