// config_test.go

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

package config

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mihaiBront/roboticalab/internal/geo"
	"github.com/mihaiBront/roboticalab/internal/linefollow"
	"github.com/mihaiBront/roboticalab/internal/rescue"
	"github.com/mihaiBront/roboticalab/internal/sim"
	"github.com/mihaiBront/roboticalab/internal/vision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyFileKeepsDefaults(t *testing.T) {
	lab, err := Parse([]byte("\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), lab)

	lab, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), lab)

	fc, err := lab.Follow.Config("")
	require.NoError(t, err)
	assert.Equal(t, linefollow.DefaultConfig(linefollow.ModePID), fc)

	cam := sim.DefaultDroneConfig().VentralCamera
	mc, err := lab.Rescue.MissionConfig(cam)
	require.NoError(t, err)
	assert.Equal(t, rescue.DefaultConfig(), mc)
}

func TestLoadLabFile(t *testing.T) {
	lab, err := Load("testdata/lab.yaml")
	require.NoError(t, err)

	fc, err := lab.Follow.Config("")
	require.NoError(t, err)
	assert.Equal(t, linefollow.ModeP, fc.Mode)
	assert.Equal(t, 0.01, fc.Kp)
	assert.Equal(t, 20*time.Millisecond, fc.Period)
	assert.Equal(t, vision.HSV{H: 20, S: 255, V: 255}, fc.High)
	assert.Equal(t, vision.RedLow, fc.Low)

	// the command line wins over the file, and gains follow the mode
	fc, err = lab.Follow.Config("pid")
	require.NoError(t, err)
	assert.Equal(t, linefollow.ModePID, fc.Mode)
	assert.Equal(t, 0.01, fc.Kp)
	assert.Equal(t, 6.5e-4, fc.Kd)

	r := lab.Rescue
	assert.Equal(t, 5.0, r.Altitude)
	assert.Equal(t, 2*time.Minute, r.PatrolTimeout)
	assert.Equal(t, "pigo", r.Detector)
	assert.Equal(t, rescue.BoatPosition, r.Boat.LatLon(), "unset boat keeps its default")
	assert.Equal(t, geo.DMS{Deg: 40, Min: 16, Sec: 47.5}, r.Survivors.LatLon().Lat)

	mc, err := r.MissionConfig(lab.Sim.DroneConfig().VentralCamera)
	require.NoError(t, err)
	assert.Equal(t, rescue.PatternLawnmower, mc.Pattern)
	assert.Equal(t, 40.0, mc.SweepWidth)
	assert.Equal(t, 4, mc.ExpectedVictims)
	assert.InDelta(t, math.Pi/2, mc.Camera.HFOV, 1e-12)

	assert.Equal(t, [][2]float64{{1, 1}, {-4, 2}}, lab.Sim.Victims)
	assert.Equal(t, []geo.Vec2{{X: 11, Y: 21}, {X: 6, Y: 22}}, lab.Sim.VictimPositions(geo.Vec2{X: 10, Y: 20}))

	track, err := lab.Sim.Track.Build()
	require.NoError(t, err)
	p, heading := track.Start()
	assert.Equal(t, geo.Vec2{Y: -6}, p)
	assert.Zero(t, heading)
}

func TestSchemaRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":  "rescue:\n  altitud: 3\n",
		"negative value": "rescue:\n  altitude: -1\n",
		"bad mode":       "follow:\n  mode: bang-bang\n",
		"bad duration":   "rescue:\n  period: soon\n",
		"short dms":      "rescue:\n  boat:\n    lat: [40, 16]\n    lon: [-3, -49, -3.5]\n",
		"hue range":      "follow:\n  hsv_low: [200, 0, 0]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.NotEmpty(t, verr.Problems)
		})
	}
}

func TestSchemaReportsEveryProblem(t *testing.T) {
	doc := "follow:\n  mode: pd\n\nrescue:\n  altitude: -1\n  pattern: zigzag\n"
	err := Validate([]byte(doc))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	all := strings.Join(verr.Problems, "\n")
	for _, path := range []string{"follow.mode", "rescue.altitude", "rescue.pattern"} {
		assert.Contains(t, all, path)
	}
	assert.GreaterOrEqual(t, len(verr.Problems), 3)
}

func TestUnknownFollowMode(t *testing.T) {
	_, err := Follow{}.Config("bang")
	assert.Error(t, err)
}

func TestTrackBuild(t *testing.T) {
	_, err := Track{Kind: "circle"}.Build()
	assert.Error(t, err)
	_, err = Track{Kind: "figure8", Radius: 3}.Build()
	assert.Error(t, err)

	tr, err := Track{Kind: "circle", Radius: 4}.Build()
	require.NoError(t, err)
	assert.Equal(t, sim.CircleTrack{Radius: 4}, tr)
}

func TestMissionConfigValidates(t *testing.T) {
	r := Default().Rescue
	r.Pattern = "zigzag"
	_, err := r.MissionConfig(sim.DefaultDroneConfig().VentralCamera)
	assert.Error(t, err)
}
