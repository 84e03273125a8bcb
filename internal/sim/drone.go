// drone.go

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
	"errors"
	"image"
	"math"
	"sync"
	"time"

	"github.com/mihaiBront/roboticalab/internal/geo"
	"github.com/mihaiBront/roboticalab/internal/vision"
)

// DroneConfig holds the flight envelope of a simulated drone.
type DroneConfig struct {
	MaxSpeed      float64 // m/s horizontal
	MaxClimb      float64 // m/s vertical
	MaxYawRate    float64 // rad/s
	PositionGain  float64 // 1/s, proportional position hold
	YawGain       float64
	BatteryDrain  float64 // percent per second while flying
	VentralCamera vision.GroundCamera
	FrontalWidth  int
	FrontalHeight int
}

// DefaultDroneConfig is a small quadrotor with a 320x240 ventral camera.
func DefaultDroneConfig() DroneConfig {
	return DroneConfig{
		MaxSpeed:      3,
		MaxClimb:      1,
		MaxYawRate:    math.Pi / 2,
		PositionGain:  1.2,
		YawGain:       2,
		BatteryDrain:  0.05,
		VentralCamera: vision.GroundCamera{Width: 320, Height: 240, HFOV: 60 * math.Pi / 180},
		FrontalWidth:  320,
		FrontalHeight: 240,
	}
}

// Drone holds the current state of a simulated drone
type Drone struct {
	ctrlMu      sync.RWMutex // this mutex protects the control fields
	ctrlMode    cmdMode
	ctrlPos     geo.Vec3
	ctrlYaw     float64
	ctrlVel     geo.Vec3 // body frame: X forward, Y left, Z up
	ctrlYawRate float64
	ctrlLanding bool
	fdMu        sync.RWMutex // this mutex protects the flight data fields
	fd          FlightData   // our private amalgamated store of the latest data
	fdStreaming bool
	autoMu      sync.Mutex // protects the autopilot fields
	autoHeight  *autopilot
	autoYaw     *autopilot
	cfg         DroneConfig
	scene       *Scene
}

// NewDrone creates a landed drone with a full battery at the origin of scene.
func NewDrone(cfg DroneConfig, scene *Scene) *Drone {
	if scene == nil {
		scene = &Scene{}
	}
	d := &Drone{cfg: cfg, scene: scene}
	d.fd.OnGround = true
	d.fd.BatteryPercentage = 100
	return d
}

// GetFlightData returns the current known state of the drone
func (d *Drone) GetFlightData() FlightData {
	d.fdMu.RLock()
	rfd := d.fd
	d.fdMu.RUnlock()
	return rfd
}

// Position returns the drone position in the local frame.
func (d *Drone) Position() geo.Vec3 {
	d.fdMu.RLock()
	defer d.fdMu.RUnlock()
	return d.fd.Position
}

// Flying reports whether the motors are running.
func (d *Drone) Flying() bool {
	return d.GetFlightData().Flying
}

// Yaw returns the drone heading in radians.
func (d *Drone) Yaw() float64 {
	d.fdMu.RLock()
	defer d.fdMu.RUnlock()
	return d.fd.Yaw
}

// SetCmdPos makes the drone fly to (x, y, z) and hold heading yaw.
func (d *Drone) SetCmdPos(x, y, z, yaw float64) {
	d.ctrlMu.Lock()
	d.ctrlMode = cmdPosition
	d.ctrlPos = geo.Vec3{X: x, Y: y, Z: z}
	d.ctrlYaw = geo.WrapAngle(yaw)
	d.ctrlMu.Unlock()
}

// SetCmdVel sets body-frame velocities: vx forward, vy left, vz up, and a yaw rate.
func (d *Drone) SetCmdVel(vx, vy, vz, yawRate float64) {
	d.ctrlMu.Lock()
	d.ctrlMode = cmdVelocity
	d.ctrlVel = geo.Vec3{X: vx, Y: vy, Z: vz}
	d.ctrlYawRate = yawRate
	d.ctrlMu.Unlock()
}

// StreamFlightData starts a Goroutine which sends FlightData to a channel every period
// until ctx is done. This streamer does not block on the channel, so unconsumed updates are lost
func (d *Drone) StreamFlightData(ctx context.Context, period time.Duration) (<-chan FlightData, error) {
	d.fdMu.Lock()
	if d.fdStreaming {
		d.fdMu.Unlock()
		return nil, errors.New("Already streaming data from this drone")
	}
	d.fdStreaming = true
	d.fdMu.Unlock()

	fdChan := make(chan FlightData, 2)
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		defer func() {
			d.fdMu.Lock()
			d.fdStreaming = false
			d.fdMu.Unlock()
			close(fdChan)
		}()
		for {
			select {
			case fdChan <- d.GetFlightData():
			default:
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return fdChan, nil
}

// Start runs the physics in real time, stepping every period until ctx is done.
func (d *Drone) Start(ctx context.Context, period time.Duration) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				d.Step(now.Sub(last).Seconds())
				last = now
			}
		}
	}()
}

// Step advances the simulation by dt seconds.
func (d *Drone) Step(dt float64) {
	if dt <= 0 {
		return
	}
	fd := d.GetFlightData()
	if !fd.Flying {
		return
	}

	d.ctrlMu.RLock()
	mode := d.ctrlMode
	target, targetYaw := d.ctrlPos, d.ctrlYaw
	bodyVel, yawRate := d.ctrlVel, d.ctrlYawRate
	landing := d.ctrlLanding
	d.ctrlMu.RUnlock()

	var vel geo.Vec3
	var rate float64
	switch mode {
	case cmdPosition:
		delta := target.Sub(fd.Position)
		horiz := delta.XY().Scale(d.cfg.PositionGain)
		if n := horiz.Norm(); n > d.cfg.MaxSpeed {
			horiz = horiz.Scale(d.cfg.MaxSpeed / n)
		}
		vel = geo.Vec3{X: horiz.X, Y: horiz.Y, Z: clamp(delta.Z*d.cfg.PositionGain, d.cfg.MaxClimb)}
		rate = clamp(geo.WrapAngle(targetYaw-fd.Yaw)*d.cfg.YawGain, d.cfg.MaxYawRate)
	case cmdVelocity:
		// body Y is to the left, so right = -Y
		w := geo.BodyToWorld(geo.Vec2{}, fd.Yaw, bodyVel.X, -bodyVel.Y)
		horiz := w
		if n := horiz.Norm(); n > d.cfg.MaxSpeed {
			horiz = horiz.Scale(d.cfg.MaxSpeed / n)
		}
		vel = geo.Vec3{X: horiz.X, Y: horiz.Y, Z: clamp(bodyVel.Z, d.cfg.MaxClimb)}
		rate = clamp(yawRate, d.cfg.MaxYawRate)
	}

	if vz, ok := d.serviceHeightAutopilot(fd.Height); ok {
		vel.Z = vz
	}
	if r, ok := d.serviceYawAutopilot(fd.Yaw); ok {
		rate = r
	}
	if landing {
		vel = geo.Vec3{Z: -d.cfg.MaxClimb / 2}
		rate = 0
	}

	d.fdMu.Lock()
	defer d.fdMu.Unlock()
	d.fd.Velocity = vel
	d.fd.YawRate = rate
	d.fd.Position.X += vel.X * dt
	d.fd.Position.Y += vel.Y * dt
	d.fd.Position.Z += vel.Z * dt
	d.fd.Yaw = geo.WrapAngle(d.fd.Yaw + rate*dt)
	d.fd.FlyTime += dt
	d.fd.BatteryPercentage = math.Max(0, d.fd.BatteryPercentage-d.cfg.BatteryDrain*dt)
	d.fd.BatteryLow = d.fd.BatteryPercentage < batteryLowPct
	d.fd.BatteryCritical = d.fd.BatteryPercentage < batteryCriticalPct
	d.fd.DroneHover = vel.Norm() < 0.05 && math.Abs(rate) < 0.01

	if d.fd.Position.Z <= 0 {
		d.fd.Position.Z = 0
		if landing || vel.Z < 0 {
			d.fd.Flying = false
			d.fd.OnGround = true
			d.fd.Landing = false
			d.fd.Velocity = geo.Vec3{}
			d.ctrlMu.Lock()
			d.ctrlLanding = false
			d.ctrlMode = cmdNone
			d.ctrlMu.Unlock()
		}
	}
	d.fd.Height = d.fd.Position.Z
}

// VentralImage renders the downward camera.
func (d *Drone) VentralImage() (image.Image, error) {
	fd := d.GetFlightData()
	return d.scene.RenderVentral(d.cfg.VentralCamera, fd.Position, fd.Yaw), nil
}

// FrontalImage renders the forward camera.
func (d *Drone) FrontalImage() (image.Image, error) {
	fd := d.GetFlightData()
	return d.scene.RenderFrontal(d.cfg.FrontalWidth, d.cfg.FrontalHeight, fd.Position.Z), nil
}

// VentralCamera returns the ventral camera model.
func (d *Drone) VentralCamera() vision.GroundCamera {
	return d.cfg.VentralCamera
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
