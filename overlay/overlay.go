// Package overlay models the full-screen speaker bio overlay and the mobile
// navigation menu.
package overlay

import "sync"

// Kind classifies a transition so the renderer can pick an animation.
type Kind int

const (
	// None means nothing changed.
	None Kind = iota
	// Enter is the full entrance animation played when the overlay opens.
	Enter
	// Exit is played when the overlay closes.
	Exit
	// Navigate is the lighter directional slide between speakers.
	Navigate
)

func (k Kind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	case Navigate:
		return "navigate"
	default:
		return "none"
	}
}

// Transition describes what the overlay did in response to an action.
type Transition struct {
	Kind      Kind
	Index     int
	Direction int // +1 forward, -1 backward, 0 for enter/exit
}

// Overlay cycles through a fixed list of speakers.
type Overlay struct {
	mu          sync.Mutex
	count       int
	index       int
	open        bool
	animateText bool
}

// New returns a closed overlay over count speakers.
func New(count int) *Overlay {
	if count < 0 {
		count = 0
	}
	return &Overlay{count: count}
}

// IsOpen reports whether the overlay is showing.
func (o *Overlay) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

// Index returns the speaker currently shown.
func (o *Overlay) Index() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.index
}

// AnimateText reports whether the bio text should play its entrance
// animation. It is set by opening and cleared by navigation and closing.
func (o *Overlay) AnimateText() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.animateText
}

// Open shows speaker i. Opening an already open overlay jumps to i with a
// navigation transition instead of replaying the entrance.
func (o *Overlay) Open(i int) Transition {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.count == 0 {
		return Transition{}
	}
	i = wrap(i, o.count)
	if o.open {
		dir := 1
		if i < o.index {
			dir = -1
		}
		o.index = i
		o.animateText = false
		return Transition{Kind: Navigate, Index: i, Direction: dir}
	}
	o.open = true
	o.index = i
	o.animateText = true
	return Transition{Kind: Enter, Index: i}
}

// Close hides the overlay.
func (o *Overlay) Close() Transition {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.open {
		return Transition{}
	}
	o.open = false
	o.animateText = false
	return Transition{Kind: Exit, Index: o.index}
}

// Next shows the following speaker, wrapping to the first.
func (o *Overlay) Next() Transition {
	return o.step(1)
}

// Prev shows the preceding speaker, wrapping to the last.
func (o *Overlay) Prev() Transition {
	return o.step(-1)
}

func (o *Overlay) step(dir int) Transition {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.open || o.count == 0 {
		return Transition{}
	}
	o.index = wrap(o.index+dir, o.count)
	o.animateText = false
	return Transition{Kind: Navigate, Index: o.index, Direction: dir}
}

// Click performs the action of the zone under (x, y).
func (o *Overlay) Click(z Zones, x, y, w, h float64) Transition {
	switch z.At(x, y, w, h) {
	case Prev:
		return o.Prev()
	case Next:
		return o.Next()
	case Close:
		return o.Close()
	}
	return Transition{}
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
