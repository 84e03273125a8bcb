// sim_test.go

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
	"math"
	"testing"
	"time"

	"github.com/mihaiBront/roboticalab/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 0.05

func stepN(d *Drone, n int) {
	for i := 0; i < n; i++ {
		d.Step(dt)
	}
}

func flyingDrone(t *testing.T) *Drone {
	d := NewDrone(DefaultDroneConfig(), NewScene())
	require.NoError(t, d.TakeOff(3))
	stepN(d, 200)
	return d
}

func TestTakeOff(t *testing.T) {
	d := NewDrone(DefaultDroneConfig(), nil)
	fd := d.GetFlightData()
	assert.True(t, fd.OnGround)
	assert.Equal(t, 100.0, fd.BatteryPercentage)

	require.NoError(t, d.TakeOff(3))
	stepN(d, 200)

	fd = d.GetFlightData()
	assert.True(t, fd.Flying)
	assert.False(t, fd.OnGround)
	assert.InDelta(t, 3, fd.Height, 0.06)
	assert.Less(t, fd.BatteryPercentage, 100.0)
}

func TestTakeOffBatteryCritical(t *testing.T) {
	d := NewDrone(DefaultDroneConfig(), nil)
	d.fd.BatteryCritical = true
	assert.Error(t, d.TakeOff(3))
	assert.False(t, d.GetFlightData().Flying)
}

func TestLandedDroneDoesNotMove(t *testing.T) {
	d := NewDrone(DefaultDroneConfig(), nil)
	d.SetCmdPos(10, 10, 3, 0)
	stepN(d, 20)
	assert.Equal(t, geo.Vec3{}, d.Position())
}

func TestSetCmdPosConverges(t *testing.T) {
	d := flyingDrone(t)
	d.SetCmdPos(10, 5, 4, math.Pi/2)
	stepN(d, 400)

	p := d.Position()
	assert.InDelta(t, 10, p.X, 0.01)
	assert.InDelta(t, 5, p.Y, 0.01)
	assert.InDelta(t, 4, p.Z, 0.01)
	assert.InDelta(t, math.Pi/2, d.Yaw(), 0.01)
	assert.True(t, d.GetFlightData().DroneHover)
}

func TestSpeedIsLimited(t *testing.T) {
	d := flyingDrone(t)
	d.SetCmdPos(100, 0, 3, 0)
	d.Step(dt)
	assert.InDelta(t, DefaultDroneConfig().MaxSpeed, d.GetFlightData().Velocity.XY().Norm(), 1e-9)
}

func TestLand(t *testing.T) {
	d := flyingDrone(t)
	d.Land()
	assert.True(t, d.GetFlightData().Landing)
	stepN(d, 200)

	fd := d.GetFlightData()
	assert.False(t, fd.Flying)
	assert.True(t, fd.OnGround)
	assert.False(t, fd.Landing)
	assert.Zero(t, fd.Height)
}

func TestFlyToHeightBusy(t *testing.T) {
	d := NewDrone(DefaultDroneConfig(), nil)
	require.NoError(t, d.TakeOff(3))
	_, err := d.FlyToHeight(5)
	assert.EqualError(t, err, "Already navigating vertically")

	_, err = d.FlyToHeight(-1)
	assert.Error(t, err)
}

func TestFlyToHeightDone(t *testing.T) {
	d := flyingDrone(t)
	done, err := d.FlyToHeight(1)
	require.NoError(t, err)
	stepN(d, 200)

	select {
	case ok := <-done:
		assert.True(t, ok)
	default:
		t.Fatal("FlyToHeight did not complete")
	}
	assert.InDelta(t, 1, d.GetFlightData().Height, 0.06)
}

func TestCancelFlyToHeight(t *testing.T) {
	d := NewDrone(DefaultDroneConfig(), nil)
	done, err := d.FlyToHeight(5)
	require.NoError(t, err)
	d.CancelFlyToHeight()
	assert.True(t, <-done)

	// a new navigation may start once the old one is gone
	_, err = d.FlyToHeight(5)
	assert.NoError(t, err)
}

func TestFlyToYaw(t *testing.T) {
	d := flyingDrone(t)

	_, err := d.FlyToYaw(200)
	assert.Error(t, err)

	done, err := d.FlyToYaw(90)
	require.NoError(t, err)
	_, err = d.FlyToYaw(10)
	assert.EqualError(t, err, "Already navigating rotationally")

	stepN(d, 100)
	select {
	case <-done:
	default:
		t.Fatal("FlyToYaw did not complete")
	}
	assert.InDelta(t, math.Pi/2, d.Yaw(), 1.5*math.Pi/180)
}

func TestMacroCommands(t *testing.T) {
	d := flyingDrone(t)
	start := d.Position()

	d.Forward(50)
	stepN(d, 20)
	p := d.Position()
	assert.InDelta(t, start.X+1.497, p.X, 0.01)
	assert.InDelta(t, start.Y, p.Y, 1e-9)

	// yaw 0 faces east, so left is north
	d.Left(50)
	stepN(d, 20)
	p = d.Position()
	assert.InDelta(t, start.Y+1.497, p.Y, 0.01)

	d.Hover()
	stepN(d, 20)
	assert.InDelta(t, p.X, d.Position().X, 0.01)
	assert.InDelta(t, p.Y, d.Position().Y, 0.01)
}

func TestPctToStick(t *testing.T) {
	assert.Equal(t, int16(0), pctToStick(-5))
	assert.Equal(t, int16(16350), pctToStick(50))
	assert.Equal(t, int16(32700), pctToStick(150))
}

func TestStreamFlightData(t *testing.T) {
	d := NewDrone(DefaultDroneConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := d.StreamFlightData(ctx, time.Millisecond)
	require.NoError(t, err)
	_, err = d.StreamFlightData(ctx, time.Millisecond)
	assert.Error(t, err)

	fd := <-ch
	assert.True(t, fd.OnGround)

	cancel()
	for range ch {
	}

	ch, err = d.StreamFlightData(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.NotNil(t, ch)
}

func TestStartRunsPhysics(t *testing.T) {
	d := NewDrone(DefaultDroneConfig(), nil)
	require.NoError(t, d.TakeOff(1))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return d.GetFlightData().Height > 0.1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRenderVentral(t *testing.T) {
	scene := NewScene(geo.Vec2{X: 1, Y: 0})
	d := NewDrone(DefaultDroneConfig(), scene)
	d.Teleport(geo.Vec3{Z: 3}, 0)

	img, err := d.VentralImage()
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())

	// one metre ahead at 3m is 92 pixels above the centre
	assert.Equal(t, SkinColor, img.At(160, 27))
	assert.Equal(t, BoatColor, img.At(160, 120))
	assert.Equal(t, SeaColor, img.At(5, 5))

	// facing north the victim is on the right
	d.Teleport(geo.Vec3{Z: 3}, math.Pi/2)
	img, err = d.VentralImage()
	require.NoError(t, err)
	assert.Equal(t, SkinColor, img.At(252, 120))
}

func TestRenderVentralOnGround(t *testing.T) {
	scene := NewScene(geo.Vec2{})
	img := scene.RenderVentral(DefaultDroneConfig().VentralCamera, geo.Vec3{}, 0)
	assert.Equal(t, SeaColor, img.At(160, 120))
}

func TestRenderFrontal(t *testing.T) {
	d := NewDrone(DefaultDroneConfig(), nil)
	img, err := d.FrontalImage()
	require.NoError(t, err)
	assert.Equal(t, SkyColor, img.At(0, 0))
	assert.Equal(t, SeaColor, img.At(0, 239))
}

func TestCarStep(t *testing.T) {
	track := PolylineTrack{Points: []geo.Vec2{{X: 0}, {X: 10}}}
	car := NewCar(track, 0.3, DefaultCarCamera())

	car.SetV(2)
	car.Step(0.5)
	p, h := car.Pose()
	assert.InDelta(t, 1, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
	assert.Zero(t, h)
	assert.InDelta(t, 1, car.Odometer(), 1e-9)

	car.SetPose(geo.Vec2{}, 0)
	car.SetV(1)
	car.SetW(math.Pi / 2)
	car.Step(1)
	p, h = car.Pose()
	r := 2 / math.Pi
	assert.InDelta(t, r, p.X, 1e-9)
	assert.InDelta(t, r, p.Y, 1e-9)
	assert.InDelta(t, math.Pi/2, h, 1e-9)

	v, w := car.Commands()
	assert.Equal(t, 1.0, v)
	assert.Equal(t, math.Pi/2, w)
}

func TestCarImage(t *testing.T) {
	track := PolylineTrack{Points: []geo.Vec2{{X: 0}, {X: 10}}}
	car := NewCar(track, 0.3, DefaultCarCamera())
	img, err := car.Image()
	require.NoError(t, err)

	assert.Equal(t, LineColor, img.At(320, 479))
	assert.Equal(t, GroundColor, img.At(0, 479))
	assert.Equal(t, HorizonSky, img.At(320, 100))
}

func TestTracks(t *testing.T) {
	c := CircleTrack{Radius: 15}
	p, h := c.Start()
	assert.Equal(t, geo.Vec2{Y: -15}, p)
	assert.Zero(t, h)
	assert.InDelta(t, 0.5, c.Distance(geo.Vec2{Y: -14.5}), 1e-9)

	sq := PolylineTrack{Points: []geo.Vec2{{}, {X: 4}, {X: 4, Y: 4}, {Y: 4}}, Closed: true}
	assert.InDelta(t, 1, sq.Distance(geo.Vec2{X: -1, Y: 2}), 1e-9)
	open := PolylineTrack{Points: sq.Points}
	assert.InDelta(t, math.Sqrt2, open.Distance(geo.Vec2{X: -1, Y: -1}), 1e-9)
	_, h = sq.Start()
	assert.Zero(t, h)
}

func TestCarMaxOffTrack(t *testing.T) {
	c := NewCar(CircleTrack{Radius: 5}, 0.3, DefaultCarCamera())
	c.SetPose(geo.Vec2{X: 5}, math.Pi/2)
	assert.Zero(t, c.MaxOffTrack())

	c.SetV(1)
	for i := 0; i < 10; i++ {
		c.Step(0.1)
	}
	worst := math.Sqrt(26) - 5
	assert.InDelta(t, worst, c.MaxOffTrack(), 1e-9)

	c.SetV(-1)
	for i := 0; i < 10; i++ {
		c.Step(0.1)
	}
	assert.InDelta(t, 0, c.OffTrack(), 1e-9)
	assert.InDelta(t, worst, c.MaxOffTrack(), 1e-9)

	c.SetPose(geo.Vec2{X: 5}, 0)
	assert.Zero(t, c.MaxOffTrack())
}
