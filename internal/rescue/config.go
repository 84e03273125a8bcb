// config.go

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

package rescue

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mihaiBront/roboticalab/internal/geo"
	"github.com/mihaiBront/roboticalab/internal/vision"
)

// Pattern is the search path flown around the reported survivors position.
type Pattern int

// Search patterns...
const (
	PatternSpiral Pattern = iota
	PatternLawnmower
)

func (p Pattern) String() string {
	switch p {
	case PatternSpiral:
		return "spiral"
	case PatternLawnmower:
		return "lawnmower"
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

// ParsePattern accepts "spiral" or "lawnmower".
func ParsePattern(s string) (Pattern, error) {
	switch s {
	case "spiral":
		return PatternSpiral, nil
	case "lawnmower":
		return PatternLawnmower, nil
	}
	return 0, fmt.Errorf("Unknown search pattern %q", s)
}

// Known positions of the safety boat and the last report of the survivors.
var (
	BoatPosition      = geo.LatLon{Lat: geo.DMS{Deg: 40, Min: 16, Sec: 48.2}, Lon: geo.DMS{Deg: -3, Min: -49, Sec: -3.5}}
	SurvivorsPosition = geo.LatLon{Lat: geo.DMS{Deg: 40, Min: 16, Sec: 47.23}, Lon: geo.DMS{Deg: -3, Min: -49, Sec: -1.78}}
)

// Config holds everything a Mission needs to know before take-off.
type Config struct {
	Boat      geo.LatLon
	Survivors geo.LatLon

	Altitude  float64 // cruise altitude, metres
	Tolerance float64 // waypoint arrival radius, metres
	// HeadingDistance is how far a waypoint must be before the drone turns
	// to face it; closer than that the heading is held.
	HeadingDistance float64

	Pattern      Pattern
	SpiralStep   float64
	SpiralLegs   int
	SweepWidth   float64
	SweepHeight  float64
	SweepSpacing float64

	MergeRadius     float64       // sightings closer than this are the same person
	ExpectedVictims int           // patrol ends once this many are found; 0 searches the whole path
	PatrolTimeout   time.Duration // 0 means no limit

	Camera         vision.GroundCamera
	LandedAltitude float64
	Period         time.Duration
}

// DefaultConfig is the search for six survivors from the safety boat at 3m.
func DefaultConfig() Config {
	return Config{
		Boat:            BoatPosition,
		Survivors:       SurvivorsPosition,
		Altitude:        3,
		Tolerance:       1,
		HeadingDistance: 1,
		Pattern:         PatternSpiral,
		SpiralStep:      3,
		SpiralLegs:      20,
		SweepWidth:      30,
		SweepHeight:     30,
		SweepSpacing:    3,
		MergeRadius:     2,
		ExpectedVictims: 6,
		PatrolTimeout:   5 * time.Minute,
		Camera:          vision.GroundCamera{Width: 320, Height: 240, HFOV: 60 * math.Pi / 180},
		LandedAltitude:  0.1,
		Period:          50 * time.Millisecond,
	}
}

// Validate reports the first setting a mission cannot fly with.
func (c Config) Validate() error {
	switch {
	case c.Altitude <= 0:
		return errors.New("Cruise altitude must be positive")
	case c.Tolerance <= 0:
		return errors.New("Waypoint tolerance must be positive")
	case c.ExpectedVictims < 0:
		return errors.New("Expected victims must not be negative")
	case c.MergeRadius < 0:
		return errors.New("Merge radius must not be negative")
	case c.Period <= 0:
		return errors.New("Control period must be positive")
	case c.Camera.Width <= 0 || c.Camera.Height <= 0 || c.Camera.HFOV <= 0 || c.Camera.HFOV >= math.Pi:
		return errors.New("Ventral camera model is invalid")
	}
	switch c.Pattern {
	case PatternSpiral:
		if c.SpiralStep <= 0 || c.SpiralLegs <= 0 {
			return errors.New("Spiral step and legs must be positive")
		}
	case PatternLawnmower:
		if c.SweepWidth <= 0 || c.SweepHeight <= 0 || c.SweepSpacing <= 0 {
			return errors.New("Sweep width, height and spacing must be positive")
		}
	default:
		return fmt.Errorf("Unknown search pattern %v", c.Pattern)
	}
	return nil
}

// searchPath returns the patrol waypoints around c.
func (c Config) searchPath(center geo.Vec2) []geo.Vec2 {
	if c.Pattern == PatternLawnmower {
		return geo.Lawnmower(center, c.SweepWidth, c.SweepHeight, c.SweepSpacing)
	}
	return geo.Spiral(center, c.SpiralStep, c.SpiralLegs)
}
