package carousel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestAdvanceRetreatWrap(t *testing.T) {
	for _, l := range []int{1, 2, 5, 9} {
		c := New(l)
		for i := 0; i < l; i++ {
			c.Select(i)
			assert.Equal(t, (i+1)%l, c.Advance(), "advance from %d of %d", i, l)
			c.Select(i)
			assert.Equal(t, (i-1+l)%l, c.Retreat(), "retreat from %d of %d", i, l)
		}
	}
}

func TestSelectWrapsNegative(t *testing.T) {
	c := New(4)
	assert.Equal(t, 3, c.Select(-1))
	assert.Equal(t, 1, c.Select(9))
}

func TestEmptyCarouselIsNoop(t *testing.T) {
	c := New(0)
	assert.Zero(t, c.Advance())
	assert.Zero(t, c.Retreat())
	assert.Zero(t, c.Distance(3))
	assert.Zero(t, c.Len())
}

func TestDistanceIsCircular(t *testing.T) {
	for _, l := range []int{1, 2, 5, 8} {
		for i := 0; i < l; i++ {
			for j := 0; j < l; j++ {
				d := i - j
				if d < 0 {
					d = -d
				}
				want := d
				if l-d < want {
					want = l - d
				}
				require.Equal(t, want, Distance(i, j, l), "i=%d j=%d l=%d", i, j, l)
			}
		}
	}
}

func TestSlideStyleFalloff(t *testing.T) {
	c := New(6)
	got := []Style{}
	for j := 0; j < 6; j++ {
		got = append(got, c.SlideStyle(j))
	}
	want := []Style{
		{1, 1},
		{0.9, 0.8},
		{0.65, 0.6},
		{0.65, 0.6},
		{0.65, 0.6},
		{0.9, 0.8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SlideStyle mismatch (-want +got):\n%s", diff)
	}
}

func TestLoop(t *testing.T) {
	assert.Equal(t, []int{1, 2, 1, 2}, Loop([]int{1, 2}, 2))
	assert.Nil(t, Loop([]int{}, 2))
	assert.Nil(t, Loop([]int{1}, 0))
}

func TestAutoAdvancerTicksAndPauses(t *testing.T) {
	defer goleak.VerifyNone(t)

	var ticks atomic.Int32
	c := New(3)
	a := NewAutoAdvancer(5*time.Millisecond, func() {
		c.Advance()
		ticks.Add(1)
	})
	a.Start(context.Background())

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)

	a.Pause()
	assert.True(t, a.Paused())
	// Let any tick already in flight finish before sampling.
	time.Sleep(20 * time.Millisecond)
	paused := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, paused, ticks.Load(), "ticks fired while paused")

	a.Resume()
	require.Eventually(t, func() bool { return ticks.Load() > paused }, time.Second, time.Millisecond)

	a.Stop()
	a.Stop()
}

func TestAutoAdvancerStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	a := NewAutoAdvancer(time.Millisecond, func() {})
	a.Start(ctx)
	a.Start(ctx)
	cancel()
	a.Stop()
}

func TestAutoAdvancerStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)
	NewAutoAdvancer(time.Millisecond, func() {}).Stop()
}

func TestAutoAdvancerZeroIntervalUsesDefault(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := NewAutoAdvancer(0, func() {})
	assert.Equal(t, HeroInterval, a.interval)
	a.Start(context.Background())
	a.Stop()
}

// fakeViewport places slide i at offset i*width.
type fakeViewport struct {
	width   float64
	offset  float64
	sets    []float64
	snapped []int
}

func (v *fakeViewport) Offset() float64 { return v.offset }

func (v *fakeViewport) SetOffset(o float64) {
	v.offset = o
	v.sets = append(v.sets, o)
}

func (v *fakeViewport) SnapTo(i int) {
	v.offset = float64(i) * v.width
	v.snapped = append(v.snapped, i)
}

func TestScrollToEasesAndSnaps(t *testing.T) {
	vp := &fakeViewport{width: 100, offset: 100}
	frames := make(chan time.Time, 8)
	base := time.Unix(0, 0)
	for _, ms := range []int{0, 200, 400, 600, 800} {
		frames <- base.Add(time.Duration(ms) * time.Millisecond)
	}

	err := ScrollTo(context.Background(), vp, 3, HeroScrollDuration, frames)
	require.NoError(t, err)

	// First SetOffset restores the start after measuring.
	require.GreaterOrEqual(t, len(vp.sets), 2)
	assert.Equal(t, 100.0, vp.sets[0])
	assert.Equal(t, 100.0, vp.sets[1], "first frame starts at the start offset")
	assert.InDelta(t, 200, vp.sets[3], 1e-9, "midpoint is halfway")
	for i := 2; i < len(vp.sets); i++ {
		assert.GreaterOrEqual(t, vp.sets[i], vp.sets[i-1])
	}
	assert.Equal(t, []int{3, 3}, vp.snapped)
	assert.Equal(t, 300.0, vp.offset)
}

func TestScrollToCancelledSnaps(t *testing.T) {
	vp := &fakeViewport{width: 50}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ScrollTo(ctx, vp, 2, OverlayScrollDuration, make(chan time.Time))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 100.0, vp.offset)
}

func TestScrollToClosedFrames(t *testing.T) {
	vp := &fakeViewport{width: 10}
	frames := make(chan time.Time)
	close(frames)
	require.NoError(t, ScrollTo(context.Background(), vp, 1, time.Second, frames))
	assert.Equal(t, 10.0, vp.offset)
}

func TestScrollToWithFrameTicker(t *testing.T) {
	vp := &fakeViewport{width: 100}
	frames, stop := FrameTicker()
	defer stop()

	require.NoError(t, ScrollTo(context.Background(), vp, 1, 50*time.Millisecond, frames))
	assert.Equal(t, 100.0, vp.offset)
}
