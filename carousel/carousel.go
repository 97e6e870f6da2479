// Package carousel holds the selection state of circular carousels: the
// hero image strip, the past events strip and the speaker bio slider.
package carousel

import "sync"

// Carousel tracks a selected index into a circular sequence of slides.
// It is safe for concurrent use so that an AutoAdvancer can drive it.
type Carousel struct {
	mu       sync.Mutex
	n        int
	selected int
}

// New returns a carousel over n slides with the first slide selected.
func New(n int) *Carousel {
	if n < 0 {
		n = 0
	}
	return &Carousel{n: n}
}

// Len returns the number of slides.
func (c *Carousel) Len() int {
	return c.n
}

// Selected returns the currently selected index.
func (c *Carousel) Selected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Advance selects the next slide, wrapping to the first.
func (c *Carousel) Advance() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = wrap(c.selected+1, c.n)
	return c.selected
}

// Retreat selects the previous slide, wrapping to the last.
func (c *Carousel) Retreat() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = wrap(c.selected-1, c.n)
	return c.selected
}

// Select jumps to slide i. Out of range and negative indexes wrap.
func (c *Carousel) Select(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = wrap(i, c.n)
	return c.selected
}

// Distance returns how many steps slide j is from the selected slide,
// going whichever way round is shorter.
func (c *Carousel) Distance(j int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Distance(c.selected, j, c.n)
}

// SlideStyle returns the scale and opacity falloff for slide j.
func (c *Carousel) SlideStyle(j int) Style {
	return StyleForDistance(c.Distance(j))
}

// Style is the visual emphasis of a slide.
type Style struct {
	Scale   float64
	Opacity float64
}

// StyleForDistance maps a circular distance to its emphasis: the selected
// slide is full size, its neighbours slightly reduced and the rest receded.
func StyleForDistance(d int) Style {
	switch d {
	case 0:
		return Style{Scale: 1, Opacity: 1}
	case 1:
		return Style{Scale: 0.9, Opacity: 0.8}
	default:
		return Style{Scale: 0.65, Opacity: 0.6}
	}
}

// Distance is the circular distance between i and j in a sequence of n.
func Distance(i, j, n int) int {
	if n <= 0 {
		return 0
	}
	d := wrap(i, n) - wrap(j, n)
	if d < 0 {
		d = -d
	}
	if n-d < d {
		return n - d
	}
	return d
}

// Loop repeats items so a looping strip has enough slides to fill the
// viewport without a visible seam.
func Loop[T any](items []T, times int) []T {
	if len(items) == 0 || times <= 0 {
		return nil
	}
	out := make([]T, 0, len(items)*times)
	for i := 0; i < times; i++ {
		out = append(out, items...)
	}
	return out
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
