package carousel

import (
	"context"
	"time"

	"github.com/eringen/multiplicity/motion"
)

// Scroll durations for the custom eased scroll-to animation.
const (
	HeroScrollDuration    = 800 * time.Millisecond
	OverlayScrollDuration = 600 * time.Millisecond
)

// Viewport is a horizontally scrolling slide container.
type Viewport interface {
	// Offset returns the current scroll offset.
	Offset() float64
	// SetOffset moves the container without snapping.
	SetOffset(float64)
	// SnapTo jumps to the resting position of slide index.
	SnapTo(index int)
}

// ScrollTo animates vp to slide index over d, one step per received frame.
//
// The destination is measured by snapping to the target and reading the
// offset back, then the start offset is restored and eased towards it. The
// animation always ends with a snap to the target so sub-pixel drift never
// accumulates, including when ctx is cancelled or frames is closed.
func ScrollTo(ctx context.Context, vp Viewport, index int, d time.Duration, frames <-chan time.Time) error {
	start := vp.Offset()
	vp.SnapTo(index)
	dest := vp.Offset()
	vp.SetOffset(start)

	tw := motion.Tween{From: start, To: dest, Duration: d}
	var began time.Time
	for {
		select {
		case <-ctx.Done():
			vp.SnapTo(index)
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				vp.SnapTo(index)
				return nil
			}
			if began.IsZero() {
				began = now
			}
			v, done := tw.At(now.Sub(began))
			vp.SetOffset(v)
			if done {
				vp.SnapTo(index)
				return nil
			}
		}
	}
}

// FrameTicker returns a ~60Hz frame source and its release function.
func FrameTicker() (<-chan time.Time, func()) {
	t := time.NewTicker(time.Second / 60)
	return t.C, t.Stop
}
