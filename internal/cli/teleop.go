// teleop.go

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
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/mihaiBront/roboticalab/internal/gui"
	"github.com/mihaiBront/roboticalab/internal/sim"
)

const teleopPct = 50

// NewTeleopCommand creates the teleop command.
func NewTeleopCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "teleop",
		Short: "Fly the simulated drone from the keyboard",
		Long: `Flies the simulated drone over the rescue scene from the keyboard.

  t take off      l land          space hover
  w/s forward/backward            a/d left/right
  up/down climb/descend           left/right rotate
  h climb to cruise altitude      q or Esc quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTeleop(cmd, rootOpts)
		},
	}
}

func runTeleop(cmd *cobra.Command, opts *RootOptions) error {
	if opts.Display != "terminal" {
		return &ExitError{Code: ExitCommandError, Message: "teleop needs the terminal display"}
	}
	lab, err := loadLab(opts)
	if err != nil {
		return err
	}
	drone, mc, err := simWorld(lab)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	term, err := gui.NewTerminal()
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open terminal", err)
	}
	defer term.Close()
	term.OnKey(func(ev *tcell.EventKey) {
		if err := teleopKey(drone, ev, mc.Altitude); err != nil {
			slog.Warn("teleop command refused", "err", err)
		}
	})
	term.Listen(cancel)

	drone.Start(ctx, mc.Period)
	fdChan, err := drone.StreamFlightData(ctx, 4*mc.Period)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(mc.Period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case fd, ok := <-fdChan:
			if !ok {
				return nil
			}
			term.SetStatus(flightStatus(fd))
		case <-ticker.C:
			if img, err := drone.FrontalImage(); err == nil {
				term.ShowImage(img)
			}
			if img, err := drone.VentralImage(); err == nil {
				term.ShowLeftImage(img)
			}
		}
	}
}

// teleopKey maps a key press to a drone command.
func teleopKey(d *sim.Drone, ev *tcell.EventKey, altitude float64) error {
	switch ev.Key() {
	case tcell.KeyUp:
		d.Up(teleopPct)
	case tcell.KeyDown:
		d.Down(teleopPct)
	case tcell.KeyLeft:
		d.Anticlockwise(teleopPct)
	case tcell.KeyRight:
		d.Clockwise(teleopPct)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 't':
			return d.TakeOff(altitude)
		case 'l':
			d.Land()
		case ' ':
			d.Hover()
		case 'w':
			d.Forward(teleopPct)
		case 's':
			d.Backward(teleopPct)
		case 'a':
			d.Left(teleopPct)
		case 'd':
			d.Right(teleopPct)
		case 'h':
			_, err := d.FlyToHeight(altitude)
			return err
		}
	}
	return nil
}

func flightStatus(fd sim.FlightData) string {
	s := fmt.Sprintf("x %.1f y %.1f h %.1f  yaw %.0f°  battery %.0f%%",
		fd.Position.X, fd.Position.Y, fd.Height, fd.Yaw*180/math.Pi, fd.BatteryPercentage)
	switch {
	case fd.BatteryCritical:
		s += "  BATTERY CRITICAL"
	case fd.BatteryLow:
		s += "  battery low"
	}
	if fd.OnGround {
		s += "  on ground"
	}
	return s
}
