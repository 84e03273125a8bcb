// follower.go

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

// Package linefollow steers a car along a red line painted on the ground by
// visual servoing: the horizontal offset of the line centroid from the image
// centre is the error fed to a P or PID controller that drives the turn rate.
package linefollow

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/mihaiBront/roboticalab/internal/control"
	"github.com/mihaiBront/roboticalab/internal/vision"
)

// Car is the robot being driven.
type Car interface {
	Image() (image.Image, error)
	SetV(v float64)
	SetW(w float64)
}

// Display shows the processed mask.
type Display interface {
	ShowImage(img image.Image)
}

// Mode selects the controller variant.
type Mode int

// Controller variants...
const (
	ModeP Mode = iota
	ModePID
)

func (m Mode) String() string {
	switch m {
	case ModeP:
		return "p"
	case ModePID:
		return "pid"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "p" or "pid".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "p", "P":
		return ModeP, nil
	case "pid", "PID":
		return ModePID, nil
	}
	return 0, fmt.Errorf("Unknown line follower mode %q", s)
}

// Config holds the tuned constants of a follower.
type Config struct {
	Mode        Mode
	Speed       float64 // forward speed while the line is visible
	Kp, Ki, Kd  float64
	WindupLimit float64
	ROITop      int // rows dropped from the top of the camera image
	ROIBottom   int // rows dropped from the bottom
	Low, High   vision.HSV
	Period      time.Duration
}

// DefaultConfig returns the hand-tuned constants for mode.
// The PID variant looks at a band of the image closer to the horizon so the
// centroid anticipates curves; the P variant uses the whole frame.
func DefaultConfig(mode Mode) Config {
	cfg := Config{
		Mode:   mode,
		Speed:  4,
		Low:    vision.RedLow,
		High:   vision.RedHigh,
		Period: 50 * time.Millisecond,
	}
	switch mode {
	case ModeP:
		cfg.Kp = 0.0056
	case ModePID:
		cfg.Kp = 6.7e-3
		cfg.Kd = 6.5e-4
		cfg.Ki = 6.5e-4
		cfg.WindupLimit = 1000
		cfg.ROITop = 230
		cfg.ROIBottom = 110
	}
	return cfg
}

// Result describes one control cycle.
type Result struct {
	Found  bool
	CX, CY float64 // centroid in ROI coordinates
	Error  float64 // width/2 - CX
	V, W   float64 // commands sent; zero when nothing was sent
	Mask   *image.Gray
}

// Stats counts cycles since the follower was created.
type Stats struct {
	Cycles int
	Lost   int
}

// Follower runs the line-following loop.
type Follower struct {
	car     Car
	display Display
	cfg     Config
	ctrl    control.Controller
	now     func() time.Time
	last    time.Time
	logger  *slog.Logger
	stats   Stats
}

// Option customises a Follower.
type Option func(*Follower)

// WithClock replaces time.Now, used to measure the controller period.
func WithClock(now func() time.Time) Option {
	return func(f *Follower) { f.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Follower) { f.logger = l }
}

// New creates a follower. display may be nil.
func New(car Car, display Display, cfg Config, opts ...Option) *Follower {
	f := &Follower{
		car:     car,
		display: display,
		cfg:     cfg,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	switch cfg.Mode {
	case ModePID:
		f.ctrl = control.NewPID(cfg.Kp, cfg.Ki, cfg.Kd, cfg.WindupLimit)
	default:
		f.ctrl = &control.Proportional{K: cfg.Kp}
	}
	f.last = f.now()
	return f
}

// Stats returns the cycle counters.
func (f *Follower) Stats() Stats {
	return f.stats
}

// Step runs one perception/control cycle.
func (f *Follower) Step() (Result, error) {
	img, err := f.car.Image()
	if err != nil {
		return Result{}, fmt.Errorf("reading car camera: %w", err)
	}
	if img == nil {
		return Result{}, errors.New("Car returned no image")
	}
	f.stats.Cycles++

	if f.cfg.ROITop > 0 || f.cfg.ROIBottom > 0 {
		img = vision.CropRows(img, f.cfg.ROITop, f.cfg.ROIBottom)
	}
	mask := vision.InRange(img, f.cfg.Low, f.cfg.High)

	res := Result{Mask: mask}
	if blob, ok := vision.LargestBlob(vision.FindBlobs(mask)); ok {
		res.CX, res.CY, res.Found = blob.Moments.Centroid()
	}

	// a centroid on column 0 is treated as no line, as is an empty mask
	if res.Found && res.CX > 0 {
		res.Error = float64(mask.Bounds().Dx())/2 - res.CX

		now := f.now()
		dt := now.Sub(f.last).Seconds()
		f.last = now

		res.V = f.cfg.Speed
		res.W = f.ctrl.Update(res.Error, dt)
		f.car.SetV(res.V)
		f.car.SetW(res.W)
		f.logger.Debug("line tracked", "cx", res.CX, "error", res.Error, "w", res.W, "dt", dt)
	} else {
		res.Found = false
		f.stats.Lost++
		if f.cfg.Mode == ModeP {
			f.car.SetV(0)
		}
		f.logger.Debug("line lost", "mode", f.cfg.Mode)
	}

	vision.DrawMarker(mask, int(res.CX), int(res.CY), color.Gray{}, vision.DefaultMarkerSize, 2)
	if f.display != nil {
		f.display.ShowImage(mask)
	}
	return res, nil
}

// Run steps the follower every cfg.Period until ctx is done. Camera errors
// are logged and the loop carries on with the next frame.
func (f *Follower) Run(ctx context.Context) error {
	period := f.cfg.Period
	if period <= 0 {
		period = 50 * time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		if _, err := f.Step(); err != nil {
			f.logger.Warn("line follower cycle failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
