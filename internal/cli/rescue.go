// rescue.go

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
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mihaiBront/roboticalab/internal/config"
	"github.com/mihaiBront/roboticalab/internal/faces"
	"github.com/mihaiBront/roboticalab/internal/geo"
	"github.com/mihaiBront/roboticalab/internal/rescue"
	"github.com/mihaiBront/roboticalab/internal/sim"
)

// NewRescueCommand creates the rescue command.
func NewRescueCommand(rootOpts *RootOptions) *cobra.Command {
	var report, snapshots string
	cmd := &cobra.Command{
		Use:   "rescue",
		Short: "Fly the search-and-rescue mission with the simulated drone",
		Long: `Takes off from the boat, flies to the reported survivors position,
searches around it counting victims with the face detector, and flies back to
land on the boat. The mission report is written as YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRescue(cmd, rootOpts, report, snapshots)
		},
	}
	cmd.Flags().StringVarP(&report, "report", "r", "", "write the report to this file instead of stdout")
	cmd.Flags().StringVar(&snapshots, "snapshots", "", "directory for the PNG crops of found victims")
	return cmd
}

// simWorld builds the simulated drone over the sea with the victims placed
// around the survivors position.
func simWorld(lab config.Lab) (*sim.Drone, rescue.Config, error) {
	dc := lab.Sim.DroneConfig()
	mc, err := lab.Rescue.MissionConfig(dc.VentralCamera)
	if err != nil {
		return nil, mc, WrapExitError(ExitCommandError, "invalid rescue settings", err)
	}
	frame, err := geo.NewLocalFrameDMS(mc.Boat)
	if err != nil {
		return nil, mc, WrapExitError(ExitCommandError, "invalid boat position", err)
	}
	target, err := frame.OffsetDMS(mc.Survivors)
	if err != nil {
		return nil, mc, WrapExitError(ExitCommandError, "invalid survivors position", err)
	}
	scene := sim.NewScene(lab.Sim.VictimPositions(target)...)
	return sim.NewDrone(dc, scene), mc, nil
}

func newDetector(r config.Rescue) (faces.Detector, error) {
	switch r.Detector {
	case "pigo":
		params := faces.DefaultPigoParams()
		params.MinScore = r.MinScore
		d, err := faces.LoadPigo(r.Cascade, params)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "cannot load face cascade", err)
		}
		return d, nil
	case "blob", "":
		return faces.NewColorBlob(r.MinBlobArea), nil
	}
	return nil, &ExitError{Code: ExitCommandError, Message: fmt.Sprintf("unknown detector %q", r.Detector)}
}

func runRescue(cmd *cobra.Command, opts *RootOptions, reportPath, snapshotsDir string) error {
	lab, err := loadLab(opts)
	if err != nil {
		return err
	}
	if reportPath == "" {
		reportPath = lab.Rescue.Report
	}
	if snapshotsDir == "" {
		snapshotsDir = lab.Rescue.SnapshotsDir
	}
	drone, mc, err := simWorld(lab)
	if err != nil {
		return err
	}
	detector, err := newDetector(lab.Rescue)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	// The report goes to stdout, so frames do too only when it is written elsewhere.
	frames := cmd.ErrOrStderr()
	if reportPath != "" {
		frames = cmd.OutOrStdout()
	}
	disp, closeDisplay, err := openDisplay(opts.Display, frames, cancel)
	if err != nil {
		return err
	}
	defer closeDisplay()

	var runErr error
	var mission *rescue.Mission
	if opts.Ticks > 0 {
		clock := newSimClock()
		mission, err = rescue.New(drone, disp, detector, mc, rescue.WithClock(clock.Now), rescue.WithLogger(slog.Default()))
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid rescue settings", err)
		}
		runErr = stepMission(ctx, mission, drone, mc, opts.Ticks, clock)
	} else {
		mission, err = rescue.New(drone, disp, detector, mc, rescue.WithLogger(slog.Default()))
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid rescue settings", err)
		}
		drone.Start(ctx, mc.Period)
		runErr = mission.Run(ctx)
		if errors.Is(runErr, context.Canceled) {
			runErr = nil
		}
	}
	closeDisplay()

	if err := writeReport(cmd, mission.Report(), reportPath); err != nil {
		return err
	}
	if snapshotsDir != "" {
		n, err := mission.SaveSnapshots(snapshotsDir)
		if err != nil {
			return WrapExitError(ExitCommandError, "cannot save snapshots", err)
		}
		slog.Info("snapshots saved", "dir", snapshotsDir, "count", n)
	}
	if runErr != nil {
		return WrapExitError(ExitFailure, "mission aborted", runErr)
	}
	return nil
}

// stepMission alternates mission ticks and physics steps of one period.
func stepMission(ctx context.Context, m *rescue.Mission, d *sim.Drone, cfg rescue.Config, ticks int, clock *simClock) error {
	for i := 0; i < ticks && ctx.Err() == nil; i++ {
		if err := m.Tick(); err != nil {
			if m.State() == rescue.StateDone {
				return err
			}
			slog.Warn("mission tick failed", "err", err)
		}
		if m.State() == rescue.StateDone {
			return nil
		}
		d.Step(cfg.Period.Seconds())
		clock.Advance(cfg.Period)
	}
	slog.Warn("mission stopped before landing", "state", m.State())
	return nil
}

func writeReport(cmd *cobra.Command, r rescue.Report, path string) error {
	data, err := r.YAML()
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot encode report", err)
	}
	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return WrapExitError(ExitCommandError, "cannot write report", err)
	}
	slog.Info("report written", "path", path, "victims", len(r.Victims))
	return nil
}
