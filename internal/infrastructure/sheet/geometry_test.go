package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversions(t *testing.T) {
	t.Run("points to pixels at 96 dpi", func(t *testing.T) {
		assert.InDelta(t, 100.0, PtToPx(75), 0.001)
		assert.InDelta(t, 75.0, PxToPt(100), 0.001)
	})

	t.Run("column width to pixels", func(t *testing.T) {
		assert.Equal(t, 64, ColWidthToPx(8.43))
		assert.Equal(t, 103, ColWidthToPx(14))
	})

	t.Run("pixels to column width round trips close", func(t *testing.T) {
		w := PxToColWidth(100)
		assert.InDelta(t, 100, ColWidthToPx(w), 2)
	})

	t.Run("pixels to column width never below one", func(t *testing.T) {
		assert.Equal(t, 1.0, PxToColWidth(3))
	})
}

func TestNewCellBox(t *testing.T) {
	t.Run("uses excel defaults for zero inputs", func(t *testing.T) {
		box := NewCellBox(0, 0)
		assert.Equal(t, ColWidthToPx(DefaultColWidthChars), box.W)
		assert.Equal(t, 20, box.H) // 15 pt at 96 dpi
	})
}

func TestFit(t *testing.T) {
	box := CellBox{W: 100, H: 100}

	t.Run("wide image scales to fit width", func(t *testing.T) {
		p := Fit(200, 100, box, true)
		assert.Equal(t, 100, p.W)
		assert.Equal(t, 50, p.H)
		assert.Equal(t, 0, p.OffX)
		assert.Equal(t, 25, p.OffY)
	})

	t.Run("tall image scales to fit height", func(t *testing.T) {
		p := Fit(50, 200, box, true)
		assert.Equal(t, 25, p.W)
		assert.Equal(t, 100, p.H)
		assert.Equal(t, 37, p.OffX)
		assert.Equal(t, 0, p.OffY)
	})

	t.Run("small image upscales when allowed", func(t *testing.T) {
		p := Fit(10, 10, box, true)
		assert.Equal(t, 100, p.W)
		assert.Equal(t, 100, p.H)
	})

	t.Run("small image keeps natural size when upscale disabled", func(t *testing.T) {
		p := Fit(10, 20, box, false)
		assert.Equal(t, 10, p.W)
		assert.Equal(t, 20, p.H)
		assert.Equal(t, 45, p.OffX)
		assert.Equal(t, 40, p.OffY)
	})

	t.Run("scaled size plus offsets never exceeds the box", func(t *testing.T) {
		for _, dims := range [][2]int{{1, 1}, {333, 77}, {77, 333}, {100, 100}, {1024, 768}} {
			p := Fit(dims[0], dims[1], box, true)
			assert.GreaterOrEqual(t, p.OffX, 0)
			assert.GreaterOrEqual(t, p.OffY, 0)
			assert.LessOrEqual(t, p.OffX+p.W, box.W)
			assert.LessOrEqual(t, p.OffY+p.H, box.H)
		}
	})

	t.Run("degenerate image dimensions are clamped", func(t *testing.T) {
		p := Fit(0, 0, box, true)
		assert.Equal(t, 100, p.W)
		assert.Equal(t, 100, p.H)
	})
}
