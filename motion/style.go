package motion

import (
	"math"
	"time"
)

// Variant selects how a block responds to its local progress.
type Variant int

const (
	// Fade fades a block in and keeps it visible.
	Fade Variant = iota
	// FadeThrough fades a block in, holds it, then fades and shrinks it
	// out in a trailing band.
	FadeThrough
)

// Block reveal bands, as fractions of local progress.
const (
	FadeInEnd    = 0.15
	FadeOutStart = 0.85
	ExitScale    = 0.95
)

// Text reveal parameters.
const (
	RevealEnd      = 0.5  // progress at which a reveal completes
	RevealRise     = 30.0 // px
	WordMinOpacity = 0.15 // opacity of a word before it is reached
)

// Style is the set of visual outputs derived from a progress value.
type Style struct {
	Opacity    float64
	Scale      float64
	TranslateY float64 // px
	ClipInset  float64 // percent clipped from the top
}

// BlockStyle derives a block's opacity and scale from its local progress.
// The last block is pinned at full opacity and scale once it has faded in.
func BlockStyle(local float64, v Variant, isLast bool) Style {
	local = Clamp(local)
	s := Style{Opacity: 1, Scale: 1}
	if local < FadeInEnd {
		s.Opacity = local / FadeInEnd
		return s
	}
	if v != FadeThrough || isLast || local <= FadeOutStart {
		return s
	}
	s.Opacity = Interpolate(local, []float64{FadeOutStart, 1}, []float64{1, 0})
	s.Scale = Interpolate(local, []float64{FadeOutStart, 1}, []float64{1, ExitScale})
	return s
}

// RevealStyle is the scroll-linked text reveal: opacity, a 30px rise and a
// clip-path wipe, all completing halfway through the tracked window.
func RevealStyle(p float64) Style {
	in := []float64{0, RevealEnd}
	return Style{
		Opacity:    Interpolate(p, in, []float64{0, 1}),
		Scale:      1,
		TranslateY: Interpolate(p, in, []float64{RevealRise, 0}),
		ClipInset:  Interpolate(p, in, []float64{100, 0}),
	}
}

// WordOpacity is a word's opacity at local progress through its range.
func WordOpacity(local float64) float64 {
	return WordMinOpacity + (1-WordMinOpacity)*Clamp(local)
}

// EaseInOutQuad is a symmetric quadratic ease-in-out curve on [0,1].
func EaseInOutQuad(t float64) float64 {
	t = Clamp(t)
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// Tween animates a scalar from From to To over Duration.
type Tween struct {
	From     float64
	To       float64
	Duration time.Duration
}

// At returns the eased value after elapsed and whether the tween is done.
// A finished tween reports exactly To.
func (tw Tween) At(elapsed time.Duration) (float64, bool) {
	if tw.Duration <= 0 || elapsed >= tw.Duration {
		return tw.To, true
	}
	if elapsed < 0 {
		elapsed = 0
	}
	t := float64(elapsed) / float64(tw.Duration)
	return tw.From + (tw.To-tw.From)*EaseInOutQuad(t), false
}

// Spring smooths a raw progress signal with a damped harmonic spring.
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64
	RestDelta float64
}

// DefaultSpring matches the about section's smoothing.
var DefaultSpring = Spring{Stiffness: 100, Damping: 30, Mass: 1, RestDelta: 0.001}

// SpringState is the current value and velocity of a spring.
type SpringState struct {
	Value    float64
	Velocity float64
}

// Step advances st towards target by dt and reports whether it came to rest.
// A resting spring is snapped onto the target.
func (sp Spring) Step(st *SpringState, target float64, dt time.Duration) bool {
	mass := sp.Mass
	if mass <= 0 {
		mass = 1
	}
	secs := dt.Seconds()
	force := -sp.Stiffness*(st.Value-target) - sp.Damping*st.Velocity
	st.Velocity += force / mass * secs
	st.Value += st.Velocity * secs
	if math.Abs(st.Velocity) < sp.RestDelta && math.Abs(target-st.Value) < sp.RestDelta {
		st.Value = target
		st.Velocity = 0
		return true
	}
	return false
}

// HandOff returns the fraction of the about-to-next-event container at which
// the about section has finished revealing n paragraphs. The container is
// n*150+100 viewport-relative units of about section plus 100 of transition.
func HandOff(n int) float64 {
	if n < 0 {
		n = 0
	}
	about := float64(n*150 + 100)
	return about / (about + 100)
}
