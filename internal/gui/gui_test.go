// gui_test.go

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

package gui

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func simTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	term, err := NewTerminalScreen(s)
	require.NoError(t, err)
	s.SetSize(w, h)
	t.Cleanup(term.Close)
	return term, s
}

func cell(s tcell.SimulationScreen, x, y int) tcell.SimCell {
	cells, w, _ := s.GetContents()
	return cells[y*w+x]
}

func TestTerminalDrawsHalfBlocks(t *testing.T) {
	term, s := simTerminal(t, 8, 3)

	red := tcell.NewRGBColor(255, 0, 0)
	term.ShowImage(uniform(4, 4, color.RGBA{255, 0, 0, 255}))

	left := image.NewRGBA(image.Rect(0, 0, 2, 2))
	left.Set(0, 0, color.White)
	left.Set(1, 0, color.White)
	left.Set(0, 1, color.Black)
	left.Set(1, 1, color.Black)
	term.ShowLeftImage(left)
	term.SetStatus("OK")

	c := cell(s, 5, 1)
	assert.Equal(t, []rune{halfBlock}, c.Runes)
	fg, bg, _ := c.Style.Decompose()
	assert.Equal(t, red, fg)
	assert.Equal(t, red, bg)

	// the left image is scaled up twice: top row white, bottom row black
	fg, bg, _ = cell(s, 0, 0).Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 255, 255), fg)
	assert.Equal(t, tcell.NewRGBColor(255, 255, 255), bg)
	fg, _, _ = cell(s, 3, 1).Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0), fg)

	assert.Equal(t, []rune{'O'}, cell(s, 0, 2).Runes)
	assert.Equal(t, []rune{'K'}, cell(s, 1, 2).Runes)
}

func TestTerminalKeys(t *testing.T) {
	term, s := simTerminal(t, 8, 3)

	keys := make(chan rune, 1)
	term.OnKey(func(ev *tcell.EventKey) { keys <- ev.Rune() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	term.Listen(cancel)

	s.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	select {
	case r := <-keys:
		assert.Equal(t, 'w', r)
	case <-time.After(2 * time.Second):
		t.Fatal("key not delivered")
	}

	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("q did not cancel")
	}
}

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.False(t, isQuit(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
}

func TestDiscard(t *testing.T) {
	var d Discard
	d.ShowImage(nil)
	d.ShowLeftImage(nil)
	d.SetStatus("")
}

func TestASCIIGolden(t *testing.T) {
	half := uniform(8, 4, color.Black)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			half.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	a := NewASCII(&buf, 2, 8)
	a.ShowImage(half)
	a.SetStatus("PATROL  victims 2/6")
	a.SetStatus("PATROL  victims 2/6") // once per frame
	a.ShowImage(half)                  // skipped
	a.SetStatus("PATROL  victims 3/6") // no frame printed
	a.ShowLeftImage(half)
	a.ShowImage(uniform(16, 8, color.White))

	g := goldie.New(t)
	g.Assert(t, "ascii_frames", buf.Bytes())
}
