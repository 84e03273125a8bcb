// commands.go

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
	"errors"

	"github.com/mihaiBront/roboticalab/internal/geo"
)

// TakeOff spins up and climbs to h metres above the take-off point.
func (d *Drone) TakeOff(h float64) error {
	d.fdMu.Lock()
	if d.fd.BatteryCritical {
		d.fdMu.Unlock()
		return errors.New("Battery too low to take off")
	}
	d.fd.Flying = true
	d.fd.OnGround = false
	d.fd.Landing = false
	d.fdMu.Unlock()

	d.ctrlMu.Lock()
	d.ctrlLanding = false
	d.ctrlMode = cmdNone
	d.ctrlMu.Unlock()

	d.CancelFlyToHeight()
	_, err := d.FlyToHeight(h)
	return err
}

// Land sends a normal Land request; the drone descends vertically and
// switches its motors off on touchdown.
func (d *Drone) Land() {
	d.CancelFlyToHeight()
	d.CancelFlyToYaw()
	d.ctrlMu.Lock()
	d.ctrlLanding = true
	d.ctrlMu.Unlock()
	d.fdMu.Lock()
	d.fd.Landing = d.fd.Flying
	d.fdMu.Unlock()
}

// *** The following are 'macro' commands which are here purely
// *** to make the drone easier to fly by hand.

// Hover holds the current position - useful as a panic action!
func (d *Drone) Hover() {
	fd := d.GetFlightData()
	d.SetCmdPos(fd.Position.X, fd.Position.Y, fd.Position.Z, fd.Yaw)
}

// UpdateSticks does a one-off update of the stick values, which are mapped
// to body-frame velocities scaled by the flight envelope.
func (d *Drone) UpdateSticks(sm StickMessage) {
	d.SetCmdVel(
		stickToUnit(sm.Ry)*d.cfg.MaxSpeed,
		-stickToUnit(sm.Rx)*d.cfg.MaxSpeed,
		stickToUnit(sm.Ly)*d.cfg.MaxClimb,
		-stickToUnit(sm.Lx)*d.cfg.MaxYawRate,
	)
}

func stickToUnit(v int16) float64 {
	return float64(v) / 32767
}

func pctToStick(pct int) int16 {
	if pct <= 0 {
		return 0
	}
	if pct > 100 {
		pct = 100
	}
	return int16(pct) * 327 // /100 * 32767
}

// Forward tells the drone to start moving forward at a given speed between 0 and 100
func (d *Drone) Forward(pct int) {
	d.UpdateSticks(StickMessage{Ry: pctToStick(pct)})
}

// Backward tells the drone to start moving Backward at a given speed between 0 and 100
func (d *Drone) Backward(pct int) {
	d.UpdateSticks(StickMessage{Ry: -pctToStick(pct)})
}

// Left tells the drone to start moving Left at a given speed between 0 and 100
func (d *Drone) Left(pct int) {
	d.UpdateSticks(StickMessage{Rx: -pctToStick(pct)})
}

// Right tells the drone to start moving Right at a given speed between 0 and 100
func (d *Drone) Right(pct int) {
	d.UpdateSticks(StickMessage{Rx: pctToStick(pct)})
}

// Up tells the drone to start moving Up at a given speed between 0 and 100
func (d *Drone) Up(pct int) {
	d.UpdateSticks(StickMessage{Ly: pctToStick(pct)})
}

// Down tells the drone to start moving Down at a given speed between 0 and 100
func (d *Drone) Down(pct int) {
	d.UpdateSticks(StickMessage{Ly: -pctToStick(pct)})
}

// Clockwise tells the drone to start rotating Clockwise at a given speed between 0 and 100
func (d *Drone) Clockwise(pct int) {
	d.UpdateSticks(StickMessage{Lx: pctToStick(pct)})
}

// Anticlockwise tells the drone to start rotating Anticlockwise at a given speed between 0 and 100
func (d *Drone) Anticlockwise(pct int) {
	d.UpdateSticks(StickMessage{Lx: -pctToStick(pct)})
}

// *** End of 'macro' commands ***

// Teleport places a landed or flying drone; used to set up scenarios.
func (d *Drone) Teleport(p geo.Vec3, yaw float64) {
	d.fdMu.Lock()
	d.fd.Position = p
	d.fd.Height = p.Z
	d.fd.Yaw = geo.WrapAngle(yaw)
	d.fdMu.Unlock()
}
