// pid.go

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

package control

// Controller turns an error signal into an actuator command.
type Controller interface {
	Update(e, dt float64) float64
	Reset()
}

// Proportional is a P-only controller.
type Proportional struct {
	K float64
}

// Update returns K*e; dt is ignored.
func (p *Proportional) Update(e, dt float64) float64 {
	return p.K * e
}

// Reset is a no-op, a P controller has no memory.
func (p *Proportional) Reset() {}

// PID holds the gains and running state of a PID controller.
// The integral gain is applied as the error is accumulated, so changing Ki
// mid-run does not rescale the history.
type PID struct {
	Kp, Ki, Kd float64
	// WindupLimit clamps the integral term to ±WindupLimit; 0 disables it.
	WindupLimit float64

	integral  float64
	lastError float64
}

// NewPID creates a PID controller with the given gains and windup limit.
func NewPID(kp, ki, kd, windup float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, WindupLimit: windup}
}

// Update advances the controller by dt seconds with error e and returns the
// new output. A non-positive dt contributes no derivative and no integral.
func (pid *PID) Update(e, dt float64) float64 {
	p := pid.Kp * e

	var d float64
	if dt > 0 {
		d = pid.Kd * (e - pid.lastError) / dt
		pid.integral += pid.Ki * e * dt
	}

	if pid.WindupLimit > 0 {
		switch {
		case pid.integral > pid.WindupLimit:
			pid.integral = pid.WindupLimit
		case pid.integral < -pid.WindupLimit:
			pid.integral = -pid.WindupLimit
		}
	}

	pid.lastError = e
	return p + d + pid.integral
}

// Terms returns the current integral term and last seen error.
func (pid *PID) Terms() (integral, lastError float64) {
	return pid.integral, pid.lastError
}

// Reset clears the integral and derivative memory.
func (pid *PID) Reset() {
	pid.integral = 0
	pid.lastError = 0
}
