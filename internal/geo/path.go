// path.go

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

package geo

import "math"

// Spiral returns a square spiral of waypoints centred on c. Each leg grows
// by step every second turn, so consecutive sweeps are step metres apart.
// The first waypoint is c itself.
func Spiral(c Vec2, step float64, legs int) []Vec2 {
	if legs <= 0 || step <= 0 {
		return []Vec2{c}
	}
	dirs := [4]Vec2{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	path := make([]Vec2, 0, legs+1)
	p := c
	path = append(path, p)
	for i := 0; i < legs; i++ {
		length := step * float64(i/2+1)
		p = p.Add(dirs[i%4].Scale(length))
		path = append(path, p)
	}
	return path
}

// Lawnmower returns a boustrophedon sweep of a width x height rectangle
// centred on c, with passes running east/west spacing metres apart.
func Lawnmower(c Vec2, width, height, spacing float64) []Vec2 {
	if spacing <= 0 || width <= 0 || height <= 0 {
		return []Vec2{c}
	}
	passes := int(math.Floor(height/spacing)) + 1
	left := c.X - width/2
	right := c.X + width/2
	bottom := c.Y - height/2
	path := make([]Vec2, 0, 2*passes)
	for i := 0; i < passes; i++ {
		y := bottom + float64(i)*spacing
		if i%2 == 0 {
			path = append(path, Vec2{left, y}, Vec2{right, y})
		} else {
			path = append(path, Vec2{right, y}, Vec2{left, y})
		}
	}
	return path
}

// PathLength returns the total length of the polyline.
func PathLength(path []Vec2) float64 {
	var l float64
	for i := 1; i < len(path); i++ {
		l += path[i].Dist(path[i-1])
	}
	return l
}
