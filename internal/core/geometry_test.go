package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Basics(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 110, Bottom: 220}
	assert.Equal(t, int32(100), r.Width())
	assert.Equal(t, int32(200), r.Height())
	assert.False(t, r.IsEmpty())
	assert.Equal(t, "[10,20][110,220]", r.String())

	assert.True(t, EmptyRect.IsEmpty())
	assert.True(t, Rect{Left: 5, Top: 5, Right: 5, Bottom: 10}.IsEmpty())
	assert.True(t, Rect{Left: 10, Right: 5, Top: 0, Bottom: 10}.IsEmpty())
}

func TestRect_HashStable(t *testing.T) {
	a := Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}
	b := Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), Rect{Left: 4, Top: 3, Right: 2, Bottom: 1}.Hash(),
		"order of edges matters in the mix")
}

func TestRegionFrom(t *testing.T) {
	r := Rect{Right: 100, Bottom: 50}
	g := RegionFrom(r)
	assert.Equal(t, r, g.Bounds())
	assert.True(t, g.Equal(RegionFrom(r)))
	assert.Equal(t, "SkRegion([0,0][100,50])", g.String())

	empty := RegionFrom(EmptyRect)
	assert.Empty(t, empty.Rects)
	assert.Equal(t, EmptyRect, empty.Bounds())
	assert.Equal(t, "SkRegion()", empty.String())
	assert.False(t, empty.Equal(g))
}

func TestRegion_BoundsCoversAllRects(t *testing.T) {
	g := Region{Rects: []Rect{
		{Left: 0, Top: 0, Right: 10, Bottom: 10},
		{Left: 20, Top: 5, Right: 40, Bottom: 30},
	}}
	assert.Equal(t, Rect{Left: 0, Top: 0, Right: 40, Bottom: 30}, g.Bounds())
}

func TestBounds(t *testing.T) {
	b := Bounds{Width: 1080, Height: 1920}
	assert.Equal(t, "1080x1920", b.String())
	assert.Equal(t, b.Hash(), Bounds{Width: 1080, Height: 1920}.Hash())
}
