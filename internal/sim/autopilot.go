// autopilot.go

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
	"log/slog"
	"math"

	"github.com/mihaiBront/roboticalab/internal/geo"
)

const (
	heightTolerance = 0.05              // metres
	yawTolerance    = 1 * math.Pi / 180 // radians
)

// autopilot is one in-flight navigation: a target and the channel to signal when it ends.
type autopilot struct {
	target float64
	done   chan bool
}

func (a *autopilot) finish() {
	a.done <- true
}

// CancelFlyToHeight stops any in-flight FlyToHeight navigation.
// The drone should stop moving vertically.
func (d *Drone) CancelFlyToHeight() {
	d.autoMu.Lock()
	if d.autoHeight != nil {
		slog.Debug("FlyToHeight cancelled")
		d.autoHeight.finish()
		d.autoHeight = nil
	}
	d.autoMu.Unlock()
}

// FlyToHeight starts vertical movement to the specified height in metres.
// The func returns immediately and the simulation step handles the navigation.
// The caller may optionally listen on the 'done' channel for a signal that
// the navigation is complete (may have been cancelled).
func (d *Drone) FlyToHeight(h float64) (done <-chan bool, err error) {
	if h < 0 {
		return nil, errors.New("Target height must not be negative")
	}
	d.autoMu.Lock()
	defer d.autoMu.Unlock()
	// are we already navigating?
	if d.autoHeight != nil {
		return nil, errors.New("Already navigating vertically")
	}
	d.autoHeight = &autopilot{target: h, done: make(chan bool, 1)} // buffered so send doesn't block
	return d.autoHeight.done, nil
}

// CancelFlyToYaw stops any in-flight FlyToYaw navigation.
// The drone should stop rotating.
func (d *Drone) CancelFlyToYaw() {
	d.autoMu.Lock()
	if d.autoYaw != nil {
		slog.Debug("FlyToYaw cancelled")
		d.autoYaw.finish()
		d.autoYaw = nil
	}
	d.autoMu.Unlock()
}

// FlyToYaw starts rotational movement to the specified yaw in degrees.
// The yaw should be between -180 and +180 degrees.
// The func returns immediately and the simulation step handles the navigation.
func (d *Drone) FlyToYaw(targetYaw float64) (done <-chan bool, err error) {
	if targetYaw < -180 || targetYaw > 180 {
		return nil, errors.New("Target yaw must be between -180 and +180")
	}
	d.autoMu.Lock()
	defer d.autoMu.Unlock()
	if d.autoYaw != nil {
		return nil, errors.New("Already navigating rotationally")
	}
	d.autoYaw = &autopilot{target: targetYaw * math.Pi / 180, done: make(chan bool, 1)}
	return d.autoYaw.done, nil
}

// serviceHeightAutopilot returns the vertical speed the height autopilot wants, if one is active.
func (d *Drone) serviceHeightAutopilot(height float64) (vz float64, active bool) {
	d.autoMu.Lock()
	defer d.autoMu.Unlock()
	if d.autoHeight == nil {
		return 0, false
	}
	delta := d.autoHeight.target - height // delta will be positive if we are too low
	switch {
	case delta > 0.4:
		vz = d.cfg.MaxClimb // full climb if >40cm off target
	case delta > heightTolerance:
		vz = d.cfg.MaxClimb / 2
	case delta < -0.4:
		vz = -d.cfg.MaxClimb
	case delta < -heightTolerance:
		vz = -d.cfg.MaxClimb / 2
	default:
		// we're there! Cancel...
		d.autoHeight.finish()
		d.autoHeight = nil
	}
	return vz, true
}

// serviceYawAutopilot returns the yaw rate the yaw autopilot wants, if one is active.
func (d *Drone) serviceYawAutopilot(yaw float64) (rate float64, active bool) {
	d.autoMu.Lock()
	defer d.autoMu.Unlock()
	if d.autoYaw == nil {
		return 0, false
	}
	delta := geo.WrapAngle(d.autoYaw.target - yaw) // shortest way round
	switch {
	case delta > 10*math.Pi/180:
		rate = d.cfg.MaxYawRate // full rate if >10deg off target
	case delta > yawTolerance:
		rate = d.cfg.MaxYawRate / 4
	case delta < -10*math.Pi/180:
		rate = -d.cfg.MaxYawRate
	case delta < -yawTolerance:
		rate = -d.cfg.MaxYawRate / 4
	default:
		d.autoYaw.finish()
		d.autoYaw = nil
	}
	return rate, true
}
