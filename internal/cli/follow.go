// follow.go

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
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mihaiBront/roboticalab/internal/linefollow"
	"github.com/mihaiBront/roboticalab/internal/sim"
)

// NewFollowCommand creates the follow command.
func NewFollowCommand(rootOpts *RootOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Drive the simulated car along the red line",
		Long: `Drives the simulated car along the red line with a visual-servo
controller. The P variant stops when it loses the line; the PID variant looks
at a band of the image nearer the horizon and keeps its last command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollow(cmd, rootOpts, mode)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "controller (p|pid), default from the lab file or pid")
	return cmd
}

func runFollow(cmd *cobra.Command, opts *RootOptions, mode string) error {
	lab, err := loadLab(opts)
	if err != nil {
		return err
	}
	cfg, err := lab.Follow.Config(mode)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid follower settings", err)
	}
	track, err := lab.Sim.Track.Build()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid track", err)
	}
	car := sim.NewCar(track, lab.Sim.Track.LineWidth, sim.DefaultCarCamera())

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	disp, closeDisplay, err := openDisplay(opts.Display, cmd.OutOrStdout(), cancel)
	if err != nil {
		return err
	}
	defer closeDisplay()

	if opts.Ticks > 0 {
		clock := newSimClock()
		f := linefollow.New(car, disp, cfg, linefollow.WithClock(clock.Now))
		for i := 0; i < opts.Ticks && ctx.Err() == nil; i++ {
			if _, err := f.Step(); err != nil {
				return err
			}
			car.Step(cfg.Period.Seconds())
			clock.Advance(cfg.Period)
			disp.SetStatus(fmt.Sprintf("%s  off-track %.2fm", cfg.Mode, car.OffTrack()))
		}
		closeDisplay()
		printFollowSummary(cmd, f.Stats(), car)
		return nil
	}

	f := linefollow.New(car, disp, cfg)
	car.Start(ctx, cfg.Period)
	if err := f.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	closeDisplay()
	printFollowSummary(cmd, f.Stats(), car)
	return nil
}

func printFollowSummary(cmd *cobra.Command, st linefollow.Stats, car *sim.Car) {
	fmt.Fprintf(cmd.OutOrStdout(), "cycles %d, line lost %d, distance %.1fm, max off-track %.3fm\n",
		st.Cycles, st.Lost, car.Odometer(), car.MaxOffTrack())
}
