// Package motion maps a scroll-progress signal onto per-block reveal values.
//
// Everything here is a pure function of the current progress value, so a
// block that has been revealed is hidden again when the page scrolls back.
package motion

// Range is a sub-interval of the global [0,1] progress domain.
type Range struct {
	Start float64
	End   float64
}

// Overlap widens the first and last ranges produced by Partition. The values
// only exist for visual overlap and can be tuned freely.
type Overlap struct {
	FirstLater  float64 // extends the end of the first range
	LastEarlier float64 // moves the start of the last range earlier
}

// DefaultOverlap starts the last paragraph 15% earlier so it overlaps the
// one before it.
var DefaultOverlap = Overlap{LastEarlier: 0.15}

// Word reveal defaults: words start revealing after the block fade-in and
// are spread over the next 75% of the block's local progress.
const (
	WordLead = 0.15
	WordSpan = 0.75
)

// Clamp limits v to [0,1].
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// LocalProgress returns how far p has travelled through r.
// A degenerate range behaves as a step at Start.
func LocalProgress(p float64, r Range) float64 {
	if p < r.Start {
		return 0
	}
	if p > r.End {
		return 1
	}
	span := r.End - r.Start
	if span <= 0 {
		return 1
	}
	return Clamp((p - r.Start) / span)
}

// Partition splits [0,1] into n equal ranges adjusted by o.
func Partition(n int, o Overlap) []Range {
	if n <= 0 {
		return nil
	}
	ranges := make([]Range, n)
	for i := range ranges {
		ranges[i] = Range{
			Start: float64(i) / float64(n),
			End:   float64(i+1) / float64(n),
		}
	}
	if n > 1 {
		last := &ranges[n-1]
		last.Start = Clamp(last.Start - o.LastEarlier)
		first := &ranges[0]
		first.End = Clamp(first.End + o.FirstLater)
	}
	return ranges
}

// WordRanges subdivides a block's local progress into one range per word.
// Word i covers [lead + i/w*span, lead + (i+1)/w*span].
func WordRanges(w int, lead, span float64) []Range {
	if w <= 0 {
		return nil
	}
	ranges := make([]Range, w)
	step := span / float64(w)
	for i := range ranges {
		start := lead + float64(i)*step
		ranges[i] = Range{Start: start, End: start + step}
	}
	return ranges
}

// Interpolate maps p through piecewise-linear keyframes. Inputs must be
// ascending; values outside the keyframes clamp to the first or last output.
func Interpolate(p float64, in, out []float64) float64 {
	n := len(in)
	if n == 0 || len(out) != n {
		return 0
	}
	if p <= in[0] {
		return out[0]
	}
	if p >= in[n-1] {
		return out[n-1]
	}
	for i := 1; i < n; i++ {
		if p > in[i] {
			continue
		}
		span := in[i] - in[i-1]
		if span <= 0 {
			return out[i]
		}
		t := (p - in[i-1]) / span
		return out[i-1] + (out[i]-out[i-1])*t
	}
	return out[n-1]
}
