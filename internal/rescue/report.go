// report.go

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
	"time"

	"gopkg.in/yaml.v3"
)

// Report summarises a mission.
type Report struct {
	RunID     string         `yaml:"run_id"`
	Started   time.Time      `yaml:"started,omitempty"`
	Ticks     int            `yaml:"ticks"`
	State     string         `yaml:"state"`
	Boat      ReportPoint    `yaml:"boat"`
	Survivors ReportPoint    `yaml:"survivors"`
	Victims   []ReportVictim `yaml:"victims"`
	Events    []ReportEvent  `yaml:"events"`
}

// ReportPoint is a position both in the local frame and geodesic.
type ReportPoint struct {
	East  float64 `yaml:"east"`
	North float64 `yaml:"north"`
	Lat   float64 `yaml:"lat,omitempty"`
	Lon   float64 `yaml:"lon,omitempty"`
}

// ReportVictim is a person found.
type ReportVictim struct {
	ID          int `yaml:"id"`
	ReportPoint `yaml:",inline"`
	Sightings   int `yaml:"sightings"`
}

// ReportEvent is a mission log entry.
type ReportEvent struct {
	Tick    int    `yaml:"tick"`
	Kind    string `yaml:"kind"`
	State   string `yaml:"state"`
	Message string `yaml:"message"`
}

// Report returns the mission summary so far.
func (m *Mission) Report() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r := Report{
		RunID:   m.runID.String(),
		Started: m.started,
		Ticks:   m.tick,
		State:   m.state.String(),
		Victims: []ReportVictim{},
		Events:  make([]ReportEvent, 0, len(m.events)),
	}
	lat, lon := m.cfg.Boat.Decimal()
	r.Boat = ReportPoint{Lat: lat, Lon: lon}
	lat, lon = m.cfg.Survivors.Decimal()
	r.Survivors = ReportPoint{East: m.target.X, North: m.target.Y, Lat: lat, Lon: lon}

	for _, v := range m.registry.Victims() {
		rv := ReportVictim{ID: v.ID, Sightings: v.Sightings}
		rv.East, rv.North = v.Position.X, v.Position.Y
		if m.frame != nil {
			if lat, lon, err := m.frame.LatLon(v.Position); err == nil {
				rv.Lat, rv.Lon = lat, lon
			}
		}
		r.Victims = append(r.Victims, rv)
	}
	for _, e := range m.events {
		r.Events = append(r.Events, ReportEvent{
			Tick:    e.Tick,
			Kind:    e.Kind.String(),
			State:   e.State.String(),
			Message: e.Message,
		})
	}
	return r
}

// YAML encodes the report.
func (r Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
