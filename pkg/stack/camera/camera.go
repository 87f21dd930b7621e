// Package camera computes where the viewer looks at the stack from.
//
// The camera orbits the stack at a distance that fits a reference book width
// into a fraction of the frame, follows the scroll position vertically and
// tilts slightly with the pointer. Focusing a book moves the camera in close.
// Motion toward each goal is smoothed with damped springs.
package camera

import (
	"math"

	"github.com/matzehuels/bookstack/pkg/stack/layout"
)

// Framing defaults.
const (
	DefaultFOV            = 45.0  // vertical field of view, degrees
	DefaultSubjectWidth   = 0.25  // meters kept in frame while orbiting
	DefaultScreenFraction = 0.7   // share of the frame the subject fills
	DefaultFocusHeight    = 0.185 // reference book height when focused
	DefaultFocusFactor    = 1.6
	TiltFactor            = -0.15
)

func halfTan(fovDeg float64) float64 {
	return 2 * math.Tan(fovDeg*math.Pi/180/2)
}

// OrbitDistance returns the distance at which subjectWidth fills
// screenFraction of a frame with the given field of view.
func OrbitDistance(fovDeg, subjectWidth, screenFraction float64) float64 {
	return subjectWidth / screenFraction / halfTan(fovDeg)
}

// FocusDistance returns the close-up distance for a focused book.
func FocusDistance(fovDeg, height, factor float64) float64 {
	return height / (factor * halfTan(fovDeg))
}

// ScrollY maps a scroll offset in [0, 1] to a height between top and bottom.
// Offsets outside the range are clamped.
func ScrollY(offset, top, bottom float64) float64 {
	offset = max(0, min(offset, 1))
	return top + (bottom-top)*offset
}

// Tilt returns the camera roll for a pointer x in [-1, 1]. A focused camera
// does not tilt.
func Tilt(pointerX float64, focused bool) float64 {
	if focused {
		return 0
	}
	return TiltFactor * pointerX
}

// Vec3 is a point or direction in meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Spring is a damped harmonic integrator along one axis.
type Spring struct {
	Mass     float64
	Tension  float64
	Friction float64

	X float64
	V float64
}

// Spring presets.
var (
	CameraSpring   = Spring{Mass: 1, Tension: 120, Friction: 20}
	RotationSpring = Spring{Mass: 1, Tension: 280, Friction: 60}
)

// Step advances the spring toward goal by dt seconds using semi-implicit Euler.
func (s *Spring) Step(goal, dt float64) {
	if dt <= 0 {
		return
	}
	m := s.Mass
	if m <= 0 {
		m = 1
	}
	a := (-s.Tension*(s.X-goal) - s.Friction*s.V) / m
	s.V += a * dt
	s.X += s.V * dt
}

// AtRest reports whether the spring is within eps of goal and nearly still.
func (s Spring) AtRest(goal, eps float64) bool {
	return math.Abs(s.X-goal) < eps && math.Abs(s.V) < eps
}

type vecSpring [3]Spring

func newVecSpring(preset Spring, at Vec3) vecSpring {
	v := vecSpring{preset, preset, preset}
	v[0].X, v[1].X, v[2].X = at.X, at.Y, at.Z
	return v
}

func (v *vecSpring) step(goal Vec3, dt float64) {
	v[0].Step(goal.X, dt)
	v[1].Step(goal.Y, dt)
	v[2].Step(goal.Z, dt)
}

func (v *vecSpring) value() Vec3 { return Vec3{v[0].X, v[1].X, v[2].X} }

// Goal is where the camera wants to be.
type Goal struct {
	Position Vec3    `json:"position"`
	LookAt   Vec3    `json:"lookAt"`
	Tilt     float64 `json:"tilt"`
}

// Input is the viewer state that drives the camera.
type Input struct {
	Scroll   float64 // 0 looks at the top of the stack, 1 at the bottom
	PointerX float64 // -1..1
	Focused  string  // focused entry id, empty for none
	Lift     float64 // extra height of a presented book
}

// Frame computes the camera goal for a layout and viewer input.
func Frame(l layout.Layout, in Input) Goal {
	if e, ok := l.Entry(in.Focused); ok && in.Focused != "" {
		target := Vec3{Y: e.Position.Y + in.Lift}
		d := FocusDistance(DefaultFOV, DefaultFocusHeight, DefaultFocusFactor)
		return Goal{
			Position: Vec3{Y: target.Y, Z: d},
			LookAt:   target,
		}
	}

	top, bottom := l.StackTop, l.Origin
	if n := len(l.Entries); n > 0 {
		top = l.Entries[n-1].Top()
	}
	y := ScrollY(in.Scroll, top, bottom)
	return Goal{
		Position: Vec3{Y: y, Z: OrbitDistance(DefaultFOV, DefaultSubjectWidth, DefaultScreenFraction)},
		LookAt:   Vec3{Y: y},
		Tilt:     Tilt(in.PointerX, false),
	}
}

// Camera smooths movement between goals.
type Camera struct {
	position vecSpring
	lookAt   vecSpring
	tilt     Spring
}

// New places a camera at g without any motion.
func New(g Goal) *Camera {
	c := &Camera{
		position: newVecSpring(CameraSpring, g.Position),
		lookAt:   newVecSpring(CameraSpring, g.LookAt),
		tilt:     RotationSpring,
	}
	c.tilt.X = g.Tilt
	return c
}

// Step moves the camera toward g by dt seconds and returns its new state.
func (c *Camera) Step(g Goal, dt float64) Goal {
	c.position.step(g.Position, dt)
	c.lookAt.step(g.LookAt, dt)
	c.tilt.Step(g.Tilt, dt)
	return c.Current()
}

// Current returns the camera state.
func (c *Camera) Current() Goal {
	return Goal{Position: c.position.value(), LookAt: c.lookAt.value(), Tilt: c.tilt.X}
}

// AtRest reports whether every axis has reached g within eps and stopped.
func (c *Camera) AtRest(g Goal, eps float64) bool {
	goals := [...]float64{g.Position.X, g.Position.Y, g.Position.Z, g.LookAt.X, g.LookAt.Y, g.LookAt.Z}
	springs := [...]Spring{c.position[0], c.position[1], c.position[2], c.lookAt[0], c.lookAt[1], c.lookAt[2]}
	for i, s := range springs {
		if !s.AtRest(goals[i], eps) {
			return false
		}
	}
	return c.tilt.AtRest(g.Tilt, eps)
}
