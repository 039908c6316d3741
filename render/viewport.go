package render

import (
	"math"

	"github.com/lixenwraith/orbit-runner/vmath"
)

// cellAspect is the height of a terminal cell in widths
const cellAspect = 2.0

// Viewport maps world units around the origin onto a screen rectangle
// World Y grows upward, screen rows grow downward
type Viewport struct {
	X, Y          int // top-left cell
	Width, Height int // in cells
	// ColsPerUnit is the horizontal scale; vertical scale is ColsPerUnit / cellAspect
	ColsPerUnit float64
}

// NewViewport fits the world region [-halfW, halfW] x [-halfH, halfH] into the rectangle
func NewViewport(x, y, width, height int, halfW, halfH float64) Viewport {
	v := Viewport{X: x, Y: y, Width: width, Height: height}
	if width <= 0 || height <= 0 || halfW <= 0 || halfH <= 0 {
		return v
	}
	byWidth := float64(width) / (2 * halfW)
	byHeight := float64(height) * cellAspect / (2 * halfH)
	v.ColsPerUnit = math.Min(byWidth, byHeight)
	return v
}

// WorldToScreen converts a world point to a cell; visible is false outside the rectangle
func (v Viewport) WorldToScreen(p vmath.Vec2) (sx, sy int, visible bool) {
	cx := float64(v.X) + float64(v.Width)/2
	cy := float64(v.Y) + float64(v.Height)/2
	sx = int(math.Floor(cx + p.X*v.ColsPerUnit))
	sy = int(math.Floor(cy - p.Y*v.ColsPerUnit/cellAspect))
	visible = sx >= v.X && sx < v.X+v.Width && sy >= v.Y && sy < v.Y+v.Height
	return
}

// UnitsPerCell is the world length of one column, used to pick sampling steps
func (v Viewport) UnitsPerCell() float64 {
	if v.ColsPerUnit <= 0 {
		return 1
	}
	return 1 / v.ColsPerUnit
}
