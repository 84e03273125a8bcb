// pid_test.go

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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProportional(t *testing.T) {
	p := &Proportional{K: 0.0056}
	assert.InDelta(t, 0.56, p.Update(100, 0.1), 1e-12)
	assert.InDelta(t, -0.56, p.Update(-100, 0), 1e-12)
}

func TestPIDTerms(t *testing.T) {
	pid := NewPID(2, 0.5, 0.1, 0)

	// first cycle: derivative sees the jump from zero
	out := pid.Update(10, 0.5)
	assert.InDelta(t, 2*10+0.1*10/0.5+0.5*10*0.5, out, 1e-12)

	out = pid.Update(10, 0.5)
	assert.InDelta(t, 20+0+5.0, out, 1e-12)

	integral, last := pid.Terms()
	assert.InDelta(t, 5.0, integral, 1e-12)
	assert.Equal(t, 10.0, last)
}

func TestPIDZeroDt(t *testing.T) {
	pid := NewPID(1, 1, 1, 0)
	out := pid.Update(4, 0)
	assert.Equal(t, 4.0, out)
	integral, _ := pid.Terms()
	assert.Equal(t, 0.0, integral)
}

func TestPIDAntiWindup(t *testing.T) {
	pid := NewPID(0, 1, 0, 2)
	for i := 0; i < 10; i++ {
		pid.Update(1, 1)
	}
	integral, _ := pid.Terms()
	assert.Equal(t, 2.0, integral)

	for i := 0; i < 10; i++ {
		pid.Update(-1, 1)
	}
	integral, _ = pid.Terms()
	assert.Equal(t, -2.0, integral)
}

func TestPIDReset(t *testing.T) {
	pid := NewPID(1, 1, 1, 0)
	pid.Update(3, 1)
	pid.Reset()
	integral, last := pid.Terms()
	assert.Zero(t, integral)
	assert.Zero(t, last)
}

func TestControllersSatisfyInterface(t *testing.T) {
	var _ Controller = &Proportional{}
	var _ Controller = NewPID(0, 0, 0, 0)
}
