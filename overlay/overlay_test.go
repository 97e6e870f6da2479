package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenCloseReopenResetsEntrance(t *testing.T) {
	o := New(3)
	tr := o.Open(1)
	assert.Equal(t, Transition{Kind: Enter, Index: 1}, tr)
	assert.True(t, o.AnimateText())

	tr = o.Next()
	assert.Equal(t, Transition{Kind: Navigate, Index: 2, Direction: 1}, tr)
	assert.False(t, o.AnimateText(), "navigation must not replay the entrance")

	tr = o.Close()
	assert.Equal(t, Exit, tr.Kind)
	assert.False(t, o.IsOpen())

	tr = o.Open(0)
	assert.Equal(t, Enter, tr.Kind)
	assert.True(t, o.AnimateText())
}

func TestNavigationWraps(t *testing.T) {
	o := New(3)
	o.Open(2)
	assert.Equal(t, 0, o.Next().Index)
	assert.Equal(t, 2, o.Prev().Index)
	tr := o.Prev()
	assert.Equal(t, 1, tr.Index)
	assert.Equal(t, -1, tr.Direction)
}

func TestClosedOverlayIgnoresNavigation(t *testing.T) {
	o := New(2)
	assert.Equal(t, None, o.Next().Kind)
	assert.Equal(t, None, o.Close().Kind)
	assert.Equal(t, None, New(0).Open(0).Kind)
}

func TestOpenWhileOpenNavigates(t *testing.T) {
	o := New(4)
	o.Open(2)
	tr := o.Open(0)
	assert.Equal(t, Transition{Kind: Navigate, Index: 0, Direction: -1}, tr)
}

func TestZones(t *testing.T) {
	z := DefaultZones
	const w, h = 900.0, 600.0
	tests := []struct {
		name string
		x, y float64
		want Zone
	}{
		{"left third", 100, 300, Prev},
		{"right third", 800, 300, Next},
		{"center", 450, 300, Close},
		{"top right corner", 890, 10, Close},
		{"right band below corner", 890, 200, Next},
		{"corner left edge is exclusive", 810, 10, Next},
		{"corner bottom edge is exclusive", 890, 90, Next},
		{"outside", -1, 10, Outside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, z.At(tt.x, tt.y, w, h))
		})
	}
	assert.Equal(t, Outside, z.At(1, 1, 0, 0))
}

func TestClickDispatches(t *testing.T) {
	o := New(3)
	o.Open(0)
	assert.Equal(t, Navigate, o.Click(DefaultZones, 10, 300, 900, 600).Kind)
	assert.Equal(t, 2, o.Index())
	assert.Equal(t, 0, o.Click(DefaultZones, 890, 300, 900, 600).Index)
	assert.Equal(t, Exit, o.Click(DefaultZones, 450, 300, 900, 600).Kind)
}

func TestMenu(t *testing.T) {
	var m Menu
	assert.Equal(t, "Open menu", m.Label())
	assert.True(t, m.Toggle())
	assert.Equal(t, "Close menu", m.Label())
	m.Close()
	assert.False(t, m.Open())
	assert.Len(t, NavItems, 3)
}
