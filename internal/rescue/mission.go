// mission.go

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

// Package rescue flies a drone from a safety boat to the last reported
// position of a group of survivors, searches the area with the ventral
// camera counting the people it finds, and brings the drone back.
package rescue

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mihaiBront/roboticalab/internal/faces"
	"github.com/mihaiBront/roboticalab/internal/geo"
	"github.com/mihaiBront/roboticalab/internal/vision"
)

// Drone is the aircraft flown by a mission. Positions are in the local
// frame centred on the take-off point, which is the boat. Flying turns false
// once the drone has touched down and stopped its motors.
type Drone interface {
	Position() geo.Vec3
	Flying() bool
	Yaw() float64
	TakeOff(h float64) error
	Land()
	SetCmdPos(x, y, z, yaw float64)
	SetCmdVel(vx, vy, vz, yawRate float64)
	FrontalImage() (image.Image, error)
	VentralImage() (image.Image, error)
}

// Display shows the camera feeds.
type Display interface {
	ShowImage(img image.Image)
	ShowLeftImage(img image.Image)
}

// StatusSetter is implemented by displays with a status line.
type StatusSetter interface {
	SetStatus(s string)
}

// State is the phase of a mission.
type State int

// Mission states, in the order they are flown...
const (
	StateIdle State = iota
	StateTakeoff
	StateTravel
	StatePatrol
	StateReturn
	StateLanding
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateTakeoff:
		return "TAKEOFF"
	case StateTravel:
		return "TRAVEL"
	case StatePatrol:
		return "PATROL"
	case StateReturn:
		return "RETURN"
	case StateLanding:
		return "LANDING"
	case StateDone:
		return "DONE"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// FaceBoxColor outlines detections on the ventral image.
var FaceBoxColor = color.RGBA{0, 255, 0, 255}

// Mission is a search-and-rescue flight.
type Mission struct {
	drone    Drone
	display  Display
	detector faces.Detector
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
	runID    uuid.UUID

	mu          sync.RWMutex // protects every field below
	state       State
	tick        int
	started     time.Time
	frame       *geo.LocalFrame
	target      geo.Vec2
	path        []geo.Vec2
	wp          int
	patrolStart time.Time
	registry    *faces.Registry
	events      []Event
	snapshots   []snapshot
}

// Option customises a Mission.
type Option func(*Mission)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Mission) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mission) { m.logger = l }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id uuid.UUID) Option {
	return func(m *Mission) { m.runID = id }
}

// New prepares a mission. display may be nil.
func New(drone Drone, display Display, detector faces.Detector, cfg Config, opts ...Option) (*Mission, error) {
	if drone == nil {
		return nil, errors.New("Mission needs a drone")
	}
	if detector == nil {
		return nil, errors.New("Mission needs a face detector")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mission config: %w", err)
	}
	m := &Mission{
		drone:    drone,
		display:  display,
		detector: detector,
		cfg:      cfg,
		logger:   slog.Default(),
		now:      time.Now,
		runID:    uuid.New(),
		registry: faces.NewRegistry(cfg.MergeRadius),
	}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With("run", m.runID.String())
	return m, nil
}

// State returns the current mission state.
func (m *Mission) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Victims returns the people found so far.
func (m *Mission) Victims() []faces.Victim {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registry.Victims()
}

// Target returns the survivors position in the local frame; ok is false
// before the mission has started.
func (m *Mission) Target() (geo.Vec2, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.target, m.frame != nil
}

// Tick runs one iteration of the mission: read the cameras, advance the
// state machine, command the drone and refresh the display.
// Ticks after the mission is done do nothing.
func (m *Mission) Tick() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateDone {
		return nil
	}
	m.tick++

	front, err := m.drone.FrontalImage()
	if err != nil {
		return fmt.Errorf("reading frontal camera: %w", err)
	}
	ventral, err := m.drone.VentralImage()
	if err != nil {
		return fmt.Errorf("reading ventral camera: %w", err)
	}
	pos := m.drone.Position()
	left := ventral

	switch m.state {
	case StateIdle:
		err = m.start(pos)
	case StateTakeoff:
		if pos.Z >= m.cfg.Altitude-m.cfg.Tolerance {
			m.transition(StateTravel, pos, "cruise altitude reached")
		}
	case StateTravel:
		if m.goTo(pos, m.target) <= m.cfg.Tolerance {
			m.path = m.cfg.searchPath(m.target)
			m.wp = 0
			m.patrolStart = m.now()
			m.transition(StatePatrol, pos, fmt.Sprintf("over the survivors, %d waypoints to search", len(m.path)))
		}
	case StatePatrol:
		left, err = m.patrol(pos, ventral)
	case StateReturn:
		if m.goTo(pos, geo.Vec2{}) <= m.cfg.Tolerance {
			m.drone.SetCmdVel(0, 0, 0, 0)
			m.drone.Land()
			m.transition(StateLanding, pos, "over the boat")
		}
	case StateLanding:
		if pos.Z <= m.cfg.LandedAltitude && !m.drone.Flying() {
			m.transition(StateDone, pos, fmt.Sprintf("landed with %d victims found", m.registry.Count()))
		}
	}

	m.show(front, left)
	return err
}

// start works out the local frame and takes off.
func (m *Mission) start(pos geo.Vec3) error {
	frame, err := geo.NewLocalFrameDMS(m.cfg.Boat)
	if err == nil {
		m.target, err = frame.OffsetDMS(m.cfg.Survivors)
	}
	if err != nil {
		m.logEvent(EventFault, pos, "cannot locate survivors: %v", err)
		m.transition(StateDone, pos, "aborted")
		return fmt.Errorf("locating survivors: %w", err)
	}
	m.frame = frame
	m.started = m.now()
	m.logger.Info("survivors located", "boat", frame.Origin().String(),
		"east", m.target.X, "north", m.target.Y)

	if err := m.drone.TakeOff(m.cfg.Altitude); err != nil {
		m.logEvent(EventFault, pos, "take-off refused: %v", err)
		m.transition(StateDone, pos, "aborted")
		return fmt.Errorf("taking off: %w", err)
	}
	m.transition(StateTakeoff, pos, fmt.Sprintf("taking off to %.1fm", m.cfg.Altitude))
	return nil
}

// goTo commands the drone towards p at cruise altitude and returns the
// horizontal distance left. The drone faces p until it is within
// HeadingDistance, then keeps its yaw.
func (m *Mission) goTo(pos geo.Vec3, p geo.Vec2) float64 {
	here := pos.XY()
	dist := here.Dist(p)
	yaw := m.drone.Yaw()
	if dist > m.cfg.HeadingDistance {
		yaw = geo.Heading(here, p)
	}
	m.drone.SetCmdPos(p.X, p.Y, m.cfg.Altitude, yaw)
	return dist
}

// patrol looks for people under the drone and moves along the search path.
// It returns the annotated ventral image.
func (m *Mission) patrol(pos geo.Vec3, ventral image.Image) (image.Image, error) {
	annotated, err := m.scan(pos, ventral)

	switch {
	case m.cfg.ExpectedVictims > 0 && m.registry.Count() >= m.cfg.ExpectedVictims:
		m.transition(StateReturn, pos, fmt.Sprintf("all %d victims found", m.registry.Count()))
		return annotated, err
	case m.cfg.PatrolTimeout > 0 && m.now().Sub(m.patrolStart) > m.cfg.PatrolTimeout:
		m.transition(StateReturn, pos, fmt.Sprintf("patrol time exhausted with %d victims found", m.registry.Count()))
		return annotated, err
	}

	for m.wp < len(m.path) && pos.XY().Dist(m.path[m.wp]) <= m.cfg.Tolerance {
		m.wp++
		m.logEvent(EventWaypoint, pos, "waypoint %d/%d reached", m.wp, len(m.path))
	}
	if m.wp >= len(m.path) {
		m.transition(StateReturn, pos, fmt.Sprintf("search path complete with %d victims found", m.registry.Count()))
		return annotated, err
	}
	m.goTo(pos, m.path[m.wp])
	return annotated, err
}

// scan runs the face detector on the ventral image and registers every face
// on the local frame.
func (m *Mission) scan(pos geo.Vec3, ventral image.Image) (image.Image, error) {
	dets, err := m.detector.Detect(ventral)
	if err != nil {
		return ventral, fmt.Errorf("detecting faces: %w", err)
	}
	if len(dets) == 0 {
		return ventral, nil
	}

	annotated := vision.ToRGBA(ventral)
	origin := ventral.Bounds().Min
	yaw := m.drone.Yaw()
	for _, d := range dets {
		vision.DrawRect(annotated, d.Box.Sub(origin), FaceBoxColor, 2)
		x, y := d.Center()
		fwd, right := m.cfg.Camera.Unproject(x-float64(origin.X), y-float64(origin.Y), pos.Z)
		p := geo.BodyToWorld(pos.XY(), yaw, fwd, right)
		v, added := m.registry.Observe(p)
		if added {
			m.logEvent(EventVictim, pos, "victim %d found at (%.1f, %.1f)", v.ID, p.X, p.Y)
			m.snapshots = append(m.snapshots, snapshot{victim: v.ID, img: crop(ventral, d.Box)})
		}
	}
	return annotated, nil
}

func (m *Mission) show(front, left image.Image) {
	if m.display == nil {
		return
	}
	m.display.ShowImage(front)
	m.display.ShowLeftImage(left)
	if s, ok := m.display.(StatusSetter); ok {
		s.SetStatus(m.status())
	}
}

func (m *Mission) status() string {
	s := fmt.Sprintf("%s  victims %d", m.state, m.registry.Count())
	if m.cfg.ExpectedVictims > 0 {
		s += fmt.Sprintf("/%d", m.cfg.ExpectedVictims)
	}
	if m.state == StatePatrol {
		s += fmt.Sprintf("  waypoint %d/%d", m.wp+1, len(m.path))
	}
	return s
}

// Run ticks the mission every cfg.Period until it is done or ctx ends.
// Camera and detector faults are logged and the next tick tries again;
// a mission that aborts returns the reason.
func (m *Mission) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.Period)
	defer ticker.Stop()
	for {
		if err := m.Tick(); err != nil {
			if m.State() == StateDone {
				return err
			}
			m.logger.Warn("mission tick failed", "err", err)
		}
		if m.State() == StateDone {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
