// cli_test.go

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
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mihaiBront/roboticalab/internal/config"
	"github.com/mihaiBront/roboticalab/internal/rescue"
	"github.com/mihaiBront/roboticalab/internal/sim"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "roboticalab", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	for _, name := range []string{"config", "verbose", "display", "ticks"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup("config").Shorthand)
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
	assert.Equal(t, "terminal", cmd.PersistentFlags().Lookup("display").DefValue)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"follow", "rescue", "teleop", "validate"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	follow, _, _ := cmd.Find([]string{"follow"})
	assert.NotNil(t, follow.Flags().Lookup("mode"))
	rescueCmd, _, _ := cmd.Find([]string{"rescue"})
	assert.NotNil(t, rescueCmd.Flags().Lookup("report"))
	assert.NotNil(t, rescueCmd.Flags().Lookup("snapshots"))
}

func TestBadGlobalFlags(t *testing.T) {
	_, _, err := execute(t, "--display", "window", "follow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid display")

	_, _, err = execute(t, "--display", "none", "--ticks", "-1", "follow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestFollowHeadless(t *testing.T) {
	for _, mode := range []string{"p", "pid"} {
		t.Run(mode, func(t *testing.T) {
			out, _, err := execute(t, "--display", "none", "--ticks", "100", "follow", "--mode", mode)
			require.NoError(t, err)
			assert.Contains(t, out, "cycles 100,")
			assert.Contains(t, out, "distance 20.0m")
			var cycles, lost int
			var dist, worst float64
			_, summary, ok := strings.Cut(out, "cycles ")
			require.True(t, ok)
			_, err = fmt.Sscanf("cycles "+summary, "cycles %d, line lost %d, distance %fm, max off-track %fm", &cycles, &lost, &dist, &worst)
			require.NoError(t, err)
			assert.Less(t, worst, 0.6)
			assert.GreaterOrEqual(t, worst, 0.0)
		})
	}
}

func TestFollowUnknownMode(t *testing.T) {
	_, _, err := execute(t, "--display", "none", "--ticks", "1", "follow", "--mode", "pd")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRescueHeadless(t *testing.T) {
	out, _, err := execute(t, "--display", "none", "--ticks", "4000", "rescue")
	require.NoError(t, err)

	var r rescue.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &r))
	assert.Equal(t, "DONE", r.State)
	assert.Len(t, r.Victims, 6)
	assert.NotEmpty(t, r.RunID)
	assert.InDelta(t, 40.28, r.Survivors.Lat, 0.01)
}

func TestRescueReportAndSnapshots(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.yaml")
	snaps := filepath.Join(dir, "victims")

	out, stderr, err := execute(t, "-c", "testdata/good.yaml", "--display", "ascii", "--ticks", "4000",
		"rescue", "--report", report, "--snapshots", snaps)
	require.NoError(t, err)
	assert.Contains(t, out, "frame 1\n")
	assert.Contains(t, stderr, "report written")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var r rescue.Report
	require.NoError(t, yaml.Unmarshal(data, &r))
	assert.Equal(t, "DONE", r.State)
	assert.Len(t, r.Victims, 2)

	pngs, err := filepath.Glob(filepath.Join(snaps, "*.png"))
	require.NoError(t, err)
	assert.Len(t, pngs, 2)
}

func TestRescueStopsAtTickLimit(t *testing.T) {
	out, stderr, err := execute(t, "--display", "none", "--ticks", "10", "rescue")
	require.NoError(t, err)
	assert.Contains(t, stderr, "mission stopped before landing")

	var r rescue.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &r))
	assert.Equal(t, "TAKEOFF", r.State)
}

func TestRescueMissingCascade(t *testing.T) {
	_, _, err := execute(t, "-c", "testdata/nocascade.yaml", "--display", "none", "--ticks", "1", "rescue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate(t *testing.T) {
	out, _, err := execute(t, "validate", "testdata/good.yaml")
	require.NoError(t, err)
	assert.Equal(t, "testdata/good.yaml: ok\n", out)

	out, _, err = execute(t, "validate", "testdata/bad.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "testdata/bad.yaml: ")
	for _, path := range []string{"follow.mode", "rescue.altitude", "rescue.pattern"} {
		assert.Contains(t, out, path)
	}

	out, _, err = execute(t, "validate", "testdata/nocascade.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "rescue.detector")

	_, _, err = execute(t, "validate", "testdata/missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "validate")
	require.Error(t, err)
}

func TestInvalidLabFileExitCode(t *testing.T) {
	for _, cmd := range []string{"rescue", "follow"} {
		_, _, err := execute(t, "-c", "testdata/bad.yaml", "--display", "none", "--ticks", "1", cmd)
		require.Error(t, err, cmd)
		assert.Equal(t, ExitFailure, GetExitCode(err), cmd)
	}
	_, _, err := execute(t, "-c", "testdata/missing.yaml", "--display", "none", "--ticks", "1", "rescue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTeleopNeedsTerminal(t *testing.T) {
	_, _, err := execute(t, "--display", "none", "teleop")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func steps(d *sim.Drone, n int) {
	for i := 0; i < n; i++ {
		d.Step(0.05)
	}
}

func TestTeleopKeys(t *testing.T) {
	lab := config.Default()
	d, mc, err := simWorld(lab)
	require.NoError(t, err)

	require.NoError(t, teleopKey(d, key('t'), mc.Altitude))
	steps(d, 200)
	assert.InDelta(t, mc.Altitude, d.Position().Z, 0.1)

	require.NoError(t, teleopKey(d, key('w'), mc.Altitude))
	steps(d, 20)
	assert.Greater(t, d.Position().X, 1.0)

	require.NoError(t, teleopKey(d, key(' '), mc.Altitude))
	x := d.Position().X
	steps(d, 20)
	assert.InDelta(t, x, d.Position().X, 0.2)

	require.NoError(t, teleopKey(d, tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), mc.Altitude))
	steps(d, 10)
	assert.Greater(t, d.Yaw(), 0.3)

	require.NoError(t, teleopKey(d, key('l'), mc.Altitude))
	steps(d, 400)
	fd := d.GetFlightData()
	assert.False(t, fd.Flying)
	assert.True(t, fd.OnGround)
	assert.Contains(t, flightStatus(fd), "on ground")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	err := WrapExitError(ExitCommandError, "bad", errors.New("cause"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "bad: cause", err.Error())
	assert.ErrorIs(t, err, err.Err)
}
