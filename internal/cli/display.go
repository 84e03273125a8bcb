// display.go

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

package cli

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"github.com/mihaiBront/roboticalab/internal/gui"
)

type display interface {
	ShowImage(img image.Image)
	ShowLeftImage(img image.Image)
	SetStatus(s string)
}

// openDisplay returns the display selected on the command line and a func
// to release it. The terminal display calls cancel when the user quits.
func openDisplay(kind string, out io.Writer, cancel context.CancelFunc) (display, func(), error) {
	switch kind {
	case "terminal":
		t, err := gui.NewTerminal()
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "cannot open terminal", err)
		}
		t.Listen(cancel)
		var once sync.Once
		return t, func() { once.Do(t.Close) }, nil
	case "ascii":
		return gui.NewASCII(out, 20, 64), func() {}, nil
	}
	return gui.Discard{}, func() {}, nil
}

// simClock is the time seen by controllers stepped in lockstep with a
// simulator.
type simClock struct {
	t time.Time
}

func newSimClock() *simClock {
	return &simClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *simClock) Now() time.Time { return c.t }

func (c *simClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
