package overlay

import "math"

// Zone is an interaction area of the overlay.
type Zone int

const (
	Outside Zone = iota
	Prev
	Next
	Close
)

func (z Zone) String() string {
	switch z {
	case Prev:
		return "prev"
	case Next:
		return "next"
	case Close:
		return "close"
	default:
		return "outside"
	}
}

// Zones splits the overlay into prev/next bands on the left and right edges
// with everything else closing it. The top-right corner always closes.
type Zones struct {
	Edge   float64 // band width as a fraction of the overlay width
	Corner float64 // corner size as a fraction of min(width, height)
}

// DefaultZones uses thirds for the bands and a 15% close corner.
var DefaultZones = Zones{Edge: 1.0 / 3.0, Corner: 0.15}

// At returns the zone under a point relative to the overlay's top-left
// corner.
func (z Zones) At(x, y, w, h float64) Zone {
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x > w || y > h {
		return Outside
	}
	corner := math.Min(w, h) * z.Corner
	if x > w-corner && y < corner {
		return Close
	}
	edge := w * z.Edge
	switch {
	case x < edge:
		return Prev
	case x > w-edge:
		return Next
	}
	return Close
}
