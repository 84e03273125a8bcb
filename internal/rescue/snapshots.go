// snapshots.go

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

package rescue

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
)

// snapshotMargin is added around a face box when cropping.
const snapshotMargin = 8

// snapshot is the ventral camera crop taken when a victim was first seen.
type snapshot struct {
	victim int
	img    *image.RGBA
}

func crop(img image.Image, box image.Rectangle) *image.RGBA {
	r := box.Inset(-snapshotMargin).Intersect(img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}

// NumSnapshots returns the number of victim pictures held in memory.
func (m *Mission) NumSnapshots() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots)
}

// SaveSnapshots writes every victim picture to dir as victim_<id>.png,
// it returns the number of pictures written &/or an error.
// Pictures written are removed from memory.
func (m *Mission) SaveSnapshots(dir string) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating snapshot directory: %w", err)
	}
	for _, s := range m.snapshots {
		if err = writePNG(filepath.Join(dir, fmt.Sprintf("victim_%d.png", s.victim)), s.img); err != nil {
			break
		}
		n++
	}
	m.snapshots = m.snapshots[n:]
	return n, err
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
