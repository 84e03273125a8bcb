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

// Package config loads lab files: YAML documents checked against an
// embedded CUE schema. Anything a file leaves out keeps its tuned default,
// so an empty file reproduces the lab constants.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/mihaiBront/roboticalab/internal/geo"
	"github.com/mihaiBront/roboticalab/internal/linefollow"
	"github.com/mihaiBront/roboticalab/internal/rescue"
	"github.com/mihaiBront/roboticalab/internal/sim"
	"github.com/mihaiBront/roboticalab/internal/vision"
)

//go:embed schema.cue
var schemaSource string

// ValidationError lists every way a lab file breaks the schema.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid lab file:\n  " + strings.Join(e.Problems, "\n  ")
}

// Lab is a lab file.
type Lab struct {
	Follow Follow `yaml:"follow"`
	Rescue Rescue `yaml:"rescue"`
	Sim    Sim    `yaml:"sim"`
}

// Follow overrides the line follower. Unset fields keep the default of the
// selected mode.
type Follow struct {
	Mode        string         `yaml:"mode"`
	Speed       *float64       `yaml:"speed"`
	Kp          *float64       `yaml:"kp"`
	Ki          *float64       `yaml:"ki"`
	Kd          *float64       `yaml:"kd"`
	WindupLimit *float64       `yaml:"windup_limit"`
	ROITop      *int           `yaml:"roi_top"`
	ROIBottom   *int           `yaml:"roi_bottom"`
	HSVLow      *[3]uint8      `yaml:"hsv_low"`
	HSVHigh     *[3]uint8      `yaml:"hsv_high"`
	Period      *time.Duration `yaml:"period"`
}

// LatLon is a geodesic position as two [deg, min, sec] triples.
type LatLon struct {
	Lat [3]float64 `yaml:"lat"`
	Lon [3]float64 `yaml:"lon"`
}

// Rescue configures the search-and-rescue mission.
type Rescue struct {
	Boat            LatLon        `yaml:"boat"`
	Survivors       LatLon        `yaml:"survivors"`
	Altitude        float64       `yaml:"altitude"`
	Tolerance       float64       `yaml:"tolerance"`
	HeadingDistance float64       `yaml:"heading_distance"`
	Pattern         string        `yaml:"pattern"`
	SpiralStep      float64       `yaml:"spiral_step"`
	SpiralLegs      int           `yaml:"spiral_legs"`
	SweepWidth      float64       `yaml:"sweep_width"`
	SweepHeight     float64       `yaml:"sweep_height"`
	SweepSpacing    float64       `yaml:"sweep_spacing"`
	MergeRadius     float64       `yaml:"merge_radius"`
	ExpectedVictims int           `yaml:"expected_victims"`
	PatrolTimeout   time.Duration `yaml:"patrol_timeout"`
	LandedAltitude  float64       `yaml:"landed_altitude"`
	Period          time.Duration `yaml:"period"`
	Detector        string        `yaml:"detector"` // blob or pigo
	Cascade         string        `yaml:"cascade"`  // pigo cascade file
	MinScore        float64       `yaml:"min_score"`
	MinBlobArea     int           `yaml:"min_blob_area"`
	SnapshotsDir    string        `yaml:"snapshots_dir"`
	Report          string        `yaml:"report"`
}

// Sim configures the simulated robots.
type Sim struct {
	Track Track `yaml:"track"`
	// Victims are offsets in metres, east and north, from the survivors position.
	Victims    [][2]float64 `yaml:"victims"`
	MaxSpeed   float64      `yaml:"max_speed"`
	MaxClimb   float64      `yaml:"max_climb"`
	CameraHFOV float64      `yaml:"camera_hfov"` // degrees
}

// Track is the line painted for the car.
type Track struct {
	Kind      string  `yaml:"kind"` // circle or square
	Radius    float64 `yaml:"radius"`
	Side      float64 `yaml:"side"`
	LineWidth float64 `yaml:"line_width"`
}

// Default returns the lab constants.
func Default() Lab {
	rc := rescue.DefaultConfig()
	dc := sim.DefaultDroneConfig()
	return Lab{
		Rescue: Rescue{
			Boat:            fromLatLon(rc.Boat),
			Survivors:       fromLatLon(rc.Survivors),
			Altitude:        rc.Altitude,
			Tolerance:       rc.Tolerance,
			HeadingDistance: rc.HeadingDistance,
			Pattern:         rc.Pattern.String(),
			SpiralStep:      rc.SpiralStep,
			SpiralLegs:      rc.SpiralLegs,
			SweepWidth:      rc.SweepWidth,
			SweepHeight:     rc.SweepHeight,
			SweepSpacing:    rc.SweepSpacing,
			MergeRadius:     rc.MergeRadius,
			ExpectedVictims: rc.ExpectedVictims,
			PatrolTimeout:   rc.PatrolTimeout,
			LandedAltitude:  rc.LandedAltitude,
			Period:          rc.Period,
			Detector:        "blob",
			MinScore:        5,
			MinBlobArea:     50,
		},
		Sim: Sim{
			Track:      Track{Kind: "circle", Radius: 15, Side: 20, LineWidth: 0.3},
			Victims:    [][2]float64{{3, 0}, {0, 3}, {-3, -1}, {2, -3}, {6, 3}, {-2, 6}},
			MaxSpeed:   dc.MaxSpeed,
			MaxClimb:   dc.MaxClimb,
			CameraHFOV: dc.VentralCamera.HFOV * 180 / math.Pi,
		},
	}
}

// Load reads a lab file; an empty path gives the defaults.
func Load(path string) (Lab, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Lab{}, fmt.Errorf("reading lab file: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the schema and decodes it over the defaults.
func Parse(data []byte) (Lab, error) {
	lab := Default()
	if err := Validate(data); err != nil {
		return lab, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return lab, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&lab); err != nil {
		return lab, fmt.Errorf("decoding lab file: %w", err)
	}
	return lab, nil
}

// Validate checks data against the lab schema.
func Validate(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling lab schema: %w", err)
	}
	lab := schema.LookupPath(cue.ParsePath("#Lab"))
	file, err := cueyaml.Extract("lab.yaml", data)
	if err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	if err := lab.Unify(doc).Validate(cue.Concrete(true), cue.All()); err != nil {
		return &ValidationError{Problems: problems(err)}
	}
	return nil
}

// problems flattens a CUE error list into one sorted line per distinct
// failure.
func problems(err error) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range cueerrors.Errors(err) {
		msg := e.Error()
		if path := strings.Join(e.Path(), "."); path != "" && !strings.Contains(msg, path) {
			msg = path + ": " + msg
		}
		if !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}
	if len(out) == 0 {
		out = []string{err.Error()}
	}
	sort.Strings(out)
	return out
}

// Config returns the follower settings for mode, which wins over the file's
// mode when it is not empty.
func (f Follow) Config(mode string) (linefollow.Config, error) {
	if mode == "" {
		mode = f.Mode
	}
	if mode == "" {
		mode = linefollow.ModePID.String()
	}
	m, err := linefollow.ParseMode(mode)
	if err != nil {
		return linefollow.Config{}, err
	}
	cfg := linefollow.DefaultConfig(m)
	setIf(&cfg.Speed, f.Speed)
	setIf(&cfg.Kp, f.Kp)
	setIf(&cfg.Ki, f.Ki)
	setIf(&cfg.Kd, f.Kd)
	setIf(&cfg.WindupLimit, f.WindupLimit)
	setIf(&cfg.ROITop, f.ROITop)
	setIf(&cfg.ROIBottom, f.ROIBottom)
	setIf(&cfg.Period, f.Period)
	if f.HSVLow != nil {
		cfg.Low = vision.HSV{H: f.HSVLow[0], S: f.HSVLow[1], V: f.HSVLow[2]}
	}
	if f.HSVHigh != nil {
		cfg.High = vision.HSV{H: f.HSVHigh[0], S: f.HSVHigh[1], V: f.HSVHigh[2]}
	}
	return cfg, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// MissionConfig returns the mission settings for a drone whose ventral
// camera is cam.
func (r Rescue) MissionConfig(cam vision.GroundCamera) (rescue.Config, error) {
	pattern, err := rescue.ParsePattern(r.Pattern)
	if err != nil {
		return rescue.Config{}, err
	}
	cfg := rescue.Config{
		Boat:            r.Boat.LatLon(),
		Survivors:       r.Survivors.LatLon(),
		Altitude:        r.Altitude,
		Tolerance:       r.Tolerance,
		HeadingDistance: r.HeadingDistance,
		Pattern:         pattern,
		SpiralStep:      r.SpiralStep,
		SpiralLegs:      r.SpiralLegs,
		SweepWidth:      r.SweepWidth,
		SweepHeight:     r.SweepHeight,
		SweepSpacing:    r.SweepSpacing,
		MergeRadius:     r.MergeRadius,
		ExpectedVictims: r.ExpectedVictims,
		PatrolTimeout:   r.PatrolTimeout,
		Camera:          cam,
		LandedAltitude:  r.LandedAltitude,
		Period:          r.Period,
	}
	return cfg, cfg.Validate()
}

// LatLon converts to degrees, minutes and seconds.
func (p LatLon) LatLon() geo.LatLon {
	return geo.LatLon{
		Lat: geo.DMS{Deg: p.Lat[0], Min: p.Lat[1], Sec: p.Lat[2]},
		Lon: geo.DMS{Deg: p.Lon[0], Min: p.Lon[1], Sec: p.Lon[2]},
	}
}

func fromLatLon(p geo.LatLon) LatLon {
	return LatLon{
		Lat: [3]float64{p.Lat.Deg, p.Lat.Min, p.Lat.Sec},
		Lon: [3]float64{p.Lon.Deg, p.Lon.Min, p.Lon.Sec},
	}
}

// DroneConfig returns the simulated drone envelope.
func (s Sim) DroneConfig() sim.DroneConfig {
	cfg := sim.DefaultDroneConfig()
	cfg.MaxSpeed = s.MaxSpeed
	cfg.MaxClimb = s.MaxClimb
	cfg.VentralCamera.HFOV = s.CameraHFOV * math.Pi / 180
	return cfg
}

// VictimPositions places the simulated victims around target.
func (s Sim) VictimPositions(target geo.Vec2) []geo.Vec2 {
	out := make([]geo.Vec2, 0, len(s.Victims))
	for _, v := range s.Victims {
		out = append(out, target.Add(geo.Vec2{X: v[0], Y: v[1]}))
	}
	return out
}

// Build returns the track.
func (t Track) Build() (sim.Track, error) {
	switch t.Kind {
	case "circle":
		if t.Radius <= 0 {
			return nil, errors.New("Circle track needs a positive radius")
		}
		return sim.CircleTrack{Radius: t.Radius}, nil
	case "square":
		if t.Side <= 0 {
			return nil, errors.New("Square track needs a positive side")
		}
		h := t.Side / 2
		return sim.PolylineTrack{
			Points: []geo.Vec2{{X: 0, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}, {X: -h, Y: -h}},
			Closed: true,
		}, nil
	}
	return nil, fmt.Errorf("Unknown track kind %q", t.Kind)
}
