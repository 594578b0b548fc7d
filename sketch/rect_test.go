package sketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersect(t *testing.T) {
	a := RectFromSize(Vec2f{0, 0}, Vec2f{100, 100})
	b := RectFromSize(Vec2f{50, 50}, Vec2f{100, 100})

	got := a.Intersect(b)
	assert.Equal(t, RectFromPoints(Vec2f{50, 50}, Vec2f{100, 100}), got)

	// disjoint rects intersect to an empty rect
	c := RectFromSize(Vec2f{200, 200}, Vec2f{10, 10})
	assert.True(t, a.Intersect(c).IsEmpty())
}

func TestRectContains(t *testing.T) {
	r := RectFromSize(Vec2f{10, 10}, Vec2f{20, 20})

	assert.True(t, r.Contains(Vec2f{10, 10}))
	assert.True(t, r.Contains(Vec2f{25, 25}))
	assert.False(t, r.Contains(Vec2f{31, 15}))
	assert.False(t, r.Contains(Vec2f{9, 15}))
}

func TestRectXYWH(t *testing.T) {
	x, y, w, h := RectFromSize(Vec2f{5, 6}, Vec2f{7, 8}).XYWH()
	assert.Equal(t, []float32{5, 6, 7, 8}, []float32{x, y, w, h})
}
