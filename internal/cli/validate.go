// validate.go

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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mihaiBront/roboticalab/internal/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a lab file",
		Long: `Checks a lab file against the lab schema and then builds every
controller it configures, listing all the problems found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot read lab file", err)
	}
	lab, err := config.Parse(data)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				fmt.Fprintf(out, "%s: %s\n", path, p)
			}
		} else {
			fmt.Fprintf(out, "%s: %v\n", path, err)
		}
		return &ExitError{Code: ExitFailure, Message: "lab file is invalid"}
	}

	var problems []error
	if _, err := lab.Follow.Config(""); err != nil {
		problems = append(problems, fmt.Errorf("follow: %w", err))
	}
	if _, err := lab.Sim.Track.Build(); err != nil {
		problems = append(problems, fmt.Errorf("sim.track: %w", err))
	}
	if _, _, err := simWorld(lab); err != nil {
		problems = append(problems, fmt.Errorf("rescue: %w", err))
	}
	if _, err := newDetector(lab.Rescue); err != nil {
		problems = append(problems, fmt.Errorf("rescue.detector: %w", err))
	}
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(out, "%s: %v\n", path, p)
		}
		return &ExitError{Code: ExitFailure, Message: "lab file is invalid"}
	}
	fmt.Fprintf(out, "%s: ok\n", path)
	return nil
}
