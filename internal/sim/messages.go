// messages.go

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

import "github.com/mihaiBront/roboticalab/internal/geo"

// FlightData holds our current knowledge of the drone's state.
type FlightData struct {
	BatteryLow        bool
	BatteryCritical   bool
	BatteryPercentage float64
	DroneHover        bool
	Flying            bool
	FlyTime           float64 // seconds in the air
	Height            float64 // metres above the take-off point
	Landing           bool
	OnGround          bool
	Position          geo.Vec3
	Velocity          geo.Vec3
	Yaw               float64 // radians, counter-clockwise from east, (-pi, pi]
	YawRate           float64
}

// StickMessage holds the signed 16-bit values of a joystick update.
// Each value can range from -32768 to 32767.
// Rx is sideways, Ry forwards, Lx rotation and Ly vertical.
type StickMessage struct {
	Rx, Ry, Lx, Ly int16
}

const (
	batteryLowPct      = 20
	batteryCriticalPct = 10
)

// cmdMode is what the drone is currently tracking.
type cmdMode int

const (
	cmdNone cmdMode = iota
	cmdPosition
	cmdVelocity
)
