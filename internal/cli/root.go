// root.go

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

// Package cli wires the controllers, the simulators and the displays into
// the roboticalab command.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mihaiBront/roboticalab/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  string
	Verbose bool
	Display string // "terminal" | "ascii" | "none"
	Ticks   int    // 0 runs in real time, otherwise steps the simulation this many times
}

// ValidDisplays defines the allowed displays.
var ValidDisplays = []string{"terminal", "ascii", "none"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "roboticalab",
		Short: "Robotics lab controllers on simulated robots",
		Long: `Runs the robotics lab controllers against built-in simulators: a car
following a red line with visual servoing, and a drone searching the sea for
survivors and counting them with a face detector.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidDisplays, opts.Display) {
				return fmt.Errorf("invalid display %q: must be one of %v", opts.Display, ValidDisplays)
			}
			if opts.Ticks < 0 {
				return fmt.Errorf("invalid ticks %d: must not be negative", opts.Ticks)
			}
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "lab file (YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Display, "display", "terminal", "where to show the cameras (terminal|ascii|none)")
	cmd.PersistentFlags().IntVar(&opts.Ticks, "ticks", 0, "step the simulation this many times instead of running in real time")

	// Add subcommands
	cmd.AddCommand(NewFollowCommand(opts))
	cmd.AddCommand(NewRescueCommand(opts))
	cmd.AddCommand(NewTeleopCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

func loadLab(opts *RootOptions) (config.Lab, error) {
	lab, err := config.Load(opts.Config)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			return lab, WrapExitError(ExitFailure, "invalid lab file", err)
		}
		return lab, WrapExitError(ExitCommandError, "cannot load lab file", err)
	}
	return lab, nil
}
