// displays.go

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
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/mihaiBront/roboticalab/internal/vision"
)

// Discard drops every image.
type Discard struct{}

// ShowImage implements the display interfaces.
func (Discard) ShowImage(image.Image) {}

// ShowLeftImage implements the display interfaces.
func (Discard) ShowLeftImage(image.Image) {}

// SetStatus implements the display interfaces.
func (Discard) SetStatus(string) {}

// ASCII prints every Every-th main image as text, Width characters wide:
// '#' for bright pixels and '.' for dark ones. A status line is printed only
// under a printed frame, once.
type ASCII struct {
	w       io.Writer
	every   int
	width   int
	frames  int
	pending bool // the last frame was printed and has no status yet
}

// NewASCII writes to w.
func NewASCII(w io.Writer, every, width int) *ASCII {
	return &ASCII{w: w, every: max(1, every), width: max(1, width)}
}

// ShowImage implements the display interfaces.
func (a *ASCII) ShowImage(img image.Image) {
	a.frames++
	a.pending = (a.frames-1)%a.every == 0
	if !a.pending {
		return
	}
	fmt.Fprintf(a.w, "frame %d\n%s", a.frames, vision.RenderASCII(a.downsample(img)))
}

// ShowLeftImage implements the display interfaces; left images are not printed.
func (a *ASCII) ShowLeftImage(image.Image) {}

// SetStatus implements the display interfaces.
func (a *ASCII) SetStatus(s string) {
	if !a.pending {
		return
	}
	a.pending = false
	fmt.Fprintln(a.w, s)
}

// downsample shrinks img to the text width, halving rows as characters are
// about twice as tall as they are wide.
func (a *ASCII) downsample(img image.Image) *image.Gray {
	b := img.Bounds()
	w := min(a.width, b.Dx())
	if w == 0 {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	h := max(1, b.Dy()*w/b.Dx()/2)
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x*b.Dx()/w, b.Min.Y+y*b.Dy()/h)).(color.Gray)
			if g.Y >= 128 {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}
