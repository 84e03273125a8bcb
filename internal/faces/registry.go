// registry.go

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

package faces

import "github.com/mihaiBront/roboticalab/internal/geo"

// Victim is a person located on the local frame.
type Victim struct {
	ID        int
	Position  geo.Vec2
	Sightings int
}

// Registry deduplicates sightings: a sighting within the merge radius of a
// known victim refines that victim instead of adding a new one.
type Registry struct {
	mergeRadius float64
	victims     []Victim
}

// NewRegistry creates an empty registry.
func NewRegistry(mergeRadius float64) *Registry {
	return &Registry{mergeRadius: mergeRadius}
}

// Observe records a sighting at p. It returns the victim the sighting was
// attributed to and whether that victim is new.
func (r *Registry) Observe(p geo.Vec2) (Victim, bool) {
	best := -1
	bestDist := r.mergeRadius
	for i, v := range r.victims {
		if d := v.Position.Dist(p); d <= bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		v := Victim{ID: len(r.victims) + 1, Position: p, Sightings: 1}
		r.victims = append(r.victims, v)
		return v, true
	}
	v := &r.victims[best]
	v.Sightings++
	// running mean of every sighting
	v.Position = v.Position.Add(p.Sub(v.Position).Scale(1 / float64(v.Sightings)))
	return *v, false
}

// Count returns the number of distinct victims.
func (r *Registry) Count() int {
	return len(r.victims)
}

// Victims returns a copy of the known victims in discovery order.
func (r *Registry) Victims() []Victim {
	return append([]Victim(nil), r.victims...)
}
