// terminal.go

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

// Package gui shows camera images: on a terminal, as text, or nowhere.
package gui

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
)

const halfBlock = '▀'

// Terminal draws a main image on the right half of the terminal and a left
// image on the left half, with a status line at the bottom. Every cell
// carries two pixels stacked vertically.
type Terminal struct {
	screen tcell.Screen

	mu     sync.Mutex // protects the fields below
	main   image.Image
	left   image.Image
	status string
	onKey  func(*tcell.EventKey)
}

// NewTerminal takes over the controlling terminal.
func NewTerminal() (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalScreen(s)
}

// NewTerminalScreen draws on s, which is initialised here.
func NewTerminalScreen(s tcell.Screen) (*Terminal, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.Clear()
	return &Terminal{screen: s}, nil
}

// Close gives the terminal back.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// ShowImage replaces the main image.
func (t *Terminal) ShowImage(img image.Image) {
	t.mu.Lock()
	t.main = img
	t.mu.Unlock()
	t.Draw()
}

// ShowLeftImage replaces the left image.
func (t *Terminal) ShowLeftImage(img image.Image) {
	t.mu.Lock()
	t.left = img
	t.mu.Unlock()
	t.Draw()
}

// SetStatus replaces the status line.
func (t *Terminal) SetStatus(s string) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
	t.Draw()
}

// OnKey registers a handler for every key except the quit keys.
func (t *Terminal) OnKey(h func(*tcell.EventKey)) {
	t.mu.Lock()
	t.onKey = h
	t.mu.Unlock()
}

// Listen polls terminal events until Close. q, Esc and Ctrl-C call cancel.
func (t *Terminal) Listen(cancel context.CancelFunc) {
	go func() {
		for {
			switch ev := t.screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventResize:
				t.screen.Sync()
				t.Draw()
			case *tcell.EventKey:
				if isQuit(ev) {
					cancel()
					continue
				}
				t.mu.Lock()
				h := t.onKey
				t.mu.Unlock()
				if h != nil {
					h(ev)
				}
			}
		}
	}()
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// Draw repaints the whole screen.
func (t *Terminal) Draw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.screen.Clear()
	rows := h - 1
	half := w / 2
	t.drawImage(t.left, 0, half, rows)
	t.drawImage(t.main, half, w-half, rows)
	for i, r := range []rune(t.status) {
		if i >= w {
			break
		}
		t.screen.SetContent(i, h-1, r, nil, tcell.StyleDefault)
	}
	t.screen.Show()
}

// drawImage fits img, keeping its aspect ratio, into the cols x rows cells
// starting at column x0.
func (t *Terminal) drawImage(img image.Image, x0, cols, rows int) {
	if img == nil || cols <= 0 || rows <= 0 {
		return
	}
	b := img.Bounds()
	iw, ih := b.Dx(), b.Dy()
	if iw == 0 || ih == 0 {
		return
	}
	scale := min(float64(cols)/float64(iw), float64(2*rows)/float64(ih))
	ow, oh := max(1, int(float64(iw)*scale)), max(1, int(float64(ih)*scale))

	sample := func(px, py int) tcell.Color {
		return toColor(img.At(b.Min.X+px*iw/ow, b.Min.Y+py*ih/oh))
	}
	for cy := 0; cy < (oh+1)/2; cy++ {
		for cx := 0; cx < ow; cx++ {
			style := tcell.StyleDefault.Foreground(sample(cx, 2*cy))
			if 2*cy+1 < oh {
				style = style.Background(sample(cx, 2*cy+1))
			}
			t.screen.SetContent(x0+cx, cy, halfBlock, nil, style)
		}
	}
}

func toColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
