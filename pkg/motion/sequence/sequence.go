// Package sequence drives the staged presentation of a featured book.
//
// Presenting a book slides it out of the stack, turns it to face the viewer
// and lifts it toward the camera. Dismissing reverses the motion. A
// [Sequencer] models this as named phases with fixed durations:
//
//	Idle -> SlidingOut -> Rotating -> Lifting -> Presented
//	Presented -> Lowering -> Returning -> Idle
//
// Idle and Presented are resting phases; every other phase ends after its
// duration and hands leftover time to the next one.
package sequence

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidTransition is returned when Present or Dismiss is called from a
// phase that does not allow it.
var ErrInvalidTransition = errors.New("invalid transition")

// Phase is a named stage of the presentation.
type Phase int

const (
	Idle Phase = iota
	SlidingOut
	Rotating
	Lifting
	Presented
	Lowering
	Returning
)

var phaseNames = [...]string{"idle", "sliding-out", "rotating", "lifting", "presented", "lowering", "returning"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Resting reports whether p lasts until an explicit transition.
func (p Phase) Resting() bool { return p == Idle || p == Presented }

func (p Phase) next() Phase {
	switch p {
	case SlidingOut:
		return Rotating
	case Rotating:
		return Lifting
	case Lifting:
		return Presented
	case Lowering:
		return Returning
	case Returning:
		return Idle
	}
	return p
}

// Durations of the transient phases.
type Durations struct {
	SlidingOut time.Duration
	Rotating   time.Duration
	Lifting    time.Duration
	Lowering   time.Duration
	Returning  time.Duration
}

// DefaultDurations approximate the timing of the spring animations the stack
// was designed with.
var DefaultDurations = Durations{
	SlidingOut: 350 * time.Millisecond,
	Rotating:   400 * time.Millisecond,
	Lifting:    450 * time.Millisecond,
	Lowering:   450 * time.Millisecond,
	Returning:  350 * time.Millisecond,
}

func (d Durations) of(p Phase) time.Duration {
	switch p {
	case SlidingOut:
		return d.SlidingOut
	case Rotating:
		return d.Rotating
	case Lifting:
		return d.Lifting
	case Lowering:
		return d.Lowering
	case Returning:
		return d.Returning
	}
	return 0
}

// Pose is the displacement of a presented book from its stack position.
type Pose struct {
	Slide    float64 `json:"slide"`    // meters toward the viewer
	Rotation float64 `json:"rotation"` // radians about the vertical axis
	Lift     float64 `json:"lift"`     // meters upward
}

// Target is the fully presented pose.
type Target = Pose

// DefaultTarget slides a book out by roughly its depth, turns it a quarter
// turn and lifts it a hand's width.
var DefaultTarget = Target{Slide: 0.14, Rotation: math.Pi / 2, Lift: 0.1}

// Sequencer is the phase machine for one book. The zero value is not usable;
// call [New].
type Sequencer struct {
	phase     Phase
	elapsed   time.Duration
	durations Durations
	target    Target
	onPhase   func(Phase)
}

// Option configures a [Sequencer].
type Option func(*Sequencer)

// WithDurations overrides the phase durations.
func WithDurations(d Durations) Option { return func(s *Sequencer) { s.durations = d } }

// WithTarget overrides the presented pose.
func WithTarget(t Target) Option { return func(s *Sequencer) { s.target = t } }

// OnPhase registers fn to run on every phase change.
func OnPhase(fn func(Phase)) Option { return func(s *Sequencer) { s.onPhase = fn } }

// New returns an Idle sequencer.
func New(opts ...Option) *Sequencer {
	s := &Sequencer{durations: DefaultDurations, target: DefaultTarget}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase { return s.phase }

// Present starts the presentation. It is only valid from Idle.
func (s *Sequencer) Present() error {
	if s.phase != Idle {
		return fmt.Errorf("%w: present from %s", ErrInvalidTransition, s.phase)
	}
	s.enter(SlidingOut)
	return nil
}

// Dismiss starts returning the book. It is only valid from Presented.
func (s *Sequencer) Dismiss() error {
	if s.phase != Presented {
		return fmt.Errorf("%w: dismiss from %s", ErrInvalidTransition, s.phase)
	}
	s.enter(Lowering)
	return nil
}

// Advance moves time forward by dt, crossing as many phases as dt covers.
// It reports whether the phase changed.
func (s *Sequencer) Advance(dt time.Duration) bool {
	if dt <= 0 || s.phase.Resting() {
		return false
	}
	start := s.phase
	s.elapsed += dt
	for !s.phase.Resting() {
		d := s.durations.of(s.phase)
		if s.elapsed < d {
			break
		}
		left := s.elapsed - d
		s.enter(s.phase.next())
		s.elapsed = left
	}
	if s.phase.Resting() {
		s.elapsed = 0
	}
	return s.phase != start
}

// Progress returns how far the current phase has run, in [0, 1]. Resting
// phases report 1.
func (s *Sequencer) Progress() float64 {
	d := s.durations.of(s.phase)
	if s.phase.Resting() || d <= 0 {
		return 1
	}
	return min(float64(s.elapsed)/float64(d), 1)
}

// Pose interpolates the current displacement with smoothstep easing.
func (s *Sequencer) Pose() Pose {
	t, e := s.target, Smoothstep(s.Progress())
	switch s.phase {
	case SlidingOut:
		return Pose{Slide: e * t.Slide}
	case Rotating:
		return Pose{Slide: t.Slide, Rotation: e * t.Rotation}
	case Lifting:
		return Pose{Slide: t.Slide, Rotation: t.Rotation, Lift: e * t.Lift}
	case Presented:
		return t
	case Lowering:
		return Pose{Slide: t.Slide, Rotation: (1 - e) * t.Rotation, Lift: (1 - e) * t.Lift}
	case Returning:
		return Pose{Slide: (1 - e) * t.Slide}
	}
	return Pose{}
}

func (s *Sequencer) enter(p Phase) {
	s.phase, s.elapsed = p, 0
	if s.onPhase != nil {
		s.onPhase(p)
	}
}

// Smoothstep eases x in [0, 1] with zero slope at both ends.
func Smoothstep(x float64) float64 {
	x = max(0, min(x, 1))
	return x * x * (3 - 2*x)
}
