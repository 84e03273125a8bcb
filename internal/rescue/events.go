// events.go

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
	"time"

	"github.com/mihaiBront/roboticalab/internal/geo"
)

// EventKind classifies mission log entries.
type EventKind int

// Mission log entry kinds...
const (
	EventTransition EventKind = iota
	EventVictim
	EventWaypoint
	EventFault
)

func (k EventKind) String() string {
	switch k {
	case EventTransition:
		return "transition"
	case EventVictim:
		return "victim"
	case EventWaypoint:
		return "waypoint"
	case EventFault:
		return "fault"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one entry of the mission log.
type Event struct {
	Tick     int
	At       time.Time
	Kind     EventKind
	State    State // state after the event
	Message  string
	Position geo.Vec3
}

func (e Event) String() string {
	return fmt.Sprintf("#%d %s [%s] %s at (%.1f, %.1f, %.1f)",
		e.Tick, e.Kind, e.State, e.Message, e.Position.X, e.Position.Y, e.Position.Z)
}

// logEvent appends to the mission log and mirrors the entry to the logger.
// The caller holds m.mu.
func (m *Mission) logEvent(kind EventKind, pos geo.Vec3, format string, args ...any) {
	ev := Event{
		Tick:     m.tick,
		At:       m.now(),
		Kind:     kind,
		State:    m.state,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	}
	m.events = append(m.events, ev)
	m.logger.Info(ev.Message, "kind", kind, "state", m.state, "tick", m.tick,
		"x", pos.X, "y", pos.Y, "z", pos.Z)
}

// transition moves the mission to next and records why.
// The caller holds m.mu.
func (m *Mission) transition(next State, pos geo.Vec3, reason string) {
	prev := m.state
	m.state = next
	m.logEvent(EventTransition, pos, "%s -> %s: %s", prev, next, reason)
}

// Events returns a copy of the mission log.
func (m *Mission) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Event(nil), m.events...)
}
